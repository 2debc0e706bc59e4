package model

import "fmt"

// GCodeProfile defines a post-processor configuration for a saw controller
// that positions a stop or pusher along a single linear axis.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "inches" or "mm"
	BuiltIn     bool   `json:"built_in"`

	StartCode []string `json:"start_code"` // Commands at start of file
	Axis      string   `json:"axis"`       // Fence axis letter, usually "X"
	RapidMove string   `json:"rapid_move"` // G0 or equivalent
	FeedMove  string   `json:"feed_move"`  // G1 or equivalent
	CutCycle  string   `json:"cut_cycle"`  // Command that fires one saw stroke
	LoadStock string   `json:"load_stock"` // Pause for the operator to load a new bar
	EndCode   []string `json:"end_code"`   // Commands at end of file

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in saw profiles.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl driven stop with spindle output wired to the saw",
		Units:         "inches",
		BuiltIn:       true,
		StartCode:     []string{"G90", "G20"},
		Axis:          "X",
		RapidMove:     "G0",
		FeedMove:      "G1",
		CutCycle:      "M3\nG4 P1\nM5",
		LoadStock:     "M0",
		EndCode:       []string{"G0 X0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 4,
	},
	{
		Name:          "Mach3",
		Description:   "Mach3 positioning with a macro saw cycle",
		Units:         "inches",
		BuiltIn:       true,
		StartCode:     []string{"G90", "G20", "G94"},
		Axis:          "X",
		RapidMove:     "G0",
		FeedMove:      "G1",
		CutCycle:      "M101",
		LoadStock:     "M0",
		EndCode:       []string{"G0 X0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC with a digital output saw trigger",
		Units:         "mm",
		BuiltIn:       true,
		StartCode:     []string{"G90", "G21"},
		Axis:          "X",
		RapidMove:     "G0",
		FeedMove:      "G1",
		CutCycle:      "M64 P0\nG4 P0.5\nM65 P0",
		LoadStock:     "M0",
		EndCode:       []string{"G0 X0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "inches",
		BuiltIn:       true,
		StartCode:     []string{"G90", "G20"},
		Axis:          "X",
		RapidMove:     "G0",
		FeedMove:      "G1",
		CutCycle:      "M3\nM5",
		LoadStock:     "M0",
		EndCode:       []string{"G0 X0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// CustomProfiles holds user-defined profiles loaded at startup.
var CustomProfiles []GCodeProfile

// AllProfiles returns built-in profiles followed by custom ones.
func AllProfiles() []GCodeProfile {
	all := make([]GCodeProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	all = append(all, CustomProfiles...)
	return all
}

// GetProfile returns a profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}

// AddCustomProfile adds or replaces a custom profile. Built-in names are reserved.
func AddCustomProfile(p GCodeProfile) error {
	for _, b := range GCodeProfiles {
		if b.Name == p.Name {
			return fmt.Errorf("cannot override built-in profile %q", p.Name)
		}
	}
	p.BuiltIn = false
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

// RemoveCustomProfile deletes a custom profile by name.
func RemoveCustomProfile(name string) error {
	for _, b := range GCodeProfiles {
		if b.Name == name {
			return fmt.Errorf("cannot remove built-in profile %q", name)
		}
	}
	for i, p := range CustomProfiles {
		if p.Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", name)
}

// NewCustomProfile returns a non-built-in profile seeded from Generic.
func NewCustomProfile(name string) GCodeProfile {
	p := GetProfile("Generic")
	p.Name = name
	p.Description = "Custom profile"
	p.BuiltIn = false
	p.StartCode = append([]string(nil), p.StartCode...)
	p.EndCode = append([]string(nil), p.EndCode...)
	return p
}
