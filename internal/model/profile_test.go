package model

import "testing"

// withCustomProfiles installs profiles for one test and restores the
// registry afterwards.
func withCustomProfiles(t *testing.T, profiles ...GCodeProfile) {
	t.Helper()
	saved := CustomProfiles
	CustomProfiles = profiles
	t.Cleanup(func() { CustomProfiles = saved })
}

func TestBuiltInSawProfiles(t *testing.T) {
	units := map[string]string{}
	for _, p := range GCodeProfiles {
		if !p.BuiltIn {
			t.Errorf("%s: built-in flag not set", p.Name)
		}
		if p.CutCycle == "" || p.Axis == "" || p.LoadStock == "" {
			t.Errorf("%s: saw cycle, fence axis and load pause are all required", p.Name)
		}
		units[p.Name] = p.Units
	}
	if units["LinuxCNC"] != "mm" {
		t.Errorf("LinuxCNC should position in mm, got %q", units["LinuxCNC"])
	}
	if units["Grbl"] != "inches" {
		t.Errorf("Grbl should position in inches, got %q", units["Grbl"])
	}
}

func TestProfileLookup(t *testing.T) {
	withCustomProfiles(t, GCodeProfile{Name: "Chop Saw", Axis: "Y", CutCycle: "M8"})

	if got := GetProfile("Chop Saw"); got.Axis != "Y" {
		t.Errorf("expected custom profile, got %+v", got)
	}
	if got := GetProfile("Unknown Saw"); got.Name != "Generic" {
		t.Errorf("unknown names fall back to Generic, got %s", got.Name)
	}

	all := AllProfiles()
	if len(all) != len(GCodeProfiles)+1 || all[len(all)-1].Name != "Chop Saw" {
		t.Errorf("custom profiles should follow built-ins, got %d profiles", len(all))
	}

	names := GetProfileNames()
	if names[0] != "Grbl" || names[len(names)-1] != "Chop Saw" {
		t.Errorf("unexpected profile names %v", names)
	}
}

func TestAddCustomProfile(t *testing.T) {
	withCustomProfiles(t)

	if err := AddCustomProfile(GCodeProfile{Name: "Mitre", Description: "v1", BuiltIn: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AddCustomProfile(GCodeProfile{Name: "Mitre", Description: "v2"}); err != nil {
		t.Fatalf("unexpected error on replace: %v", err)
	}
	if len(CustomProfiles) != 1 {
		t.Fatalf("replacing by name should not add, got %d profiles", len(CustomProfiles))
	}
	if CustomProfiles[0].Description != "v2" || CustomProfiles[0].BuiltIn {
		t.Errorf("unexpected stored profile %+v", CustomProfiles[0])
	}
	if err := AddCustomProfile(GCodeProfile{Name: "Mach3"}); err == nil {
		t.Error("built-in names are reserved")
	}
}

func TestRemoveCustomProfile(t *testing.T) {
	withCustomProfiles(t, GCodeProfile{Name: "Old Saw"}, GCodeProfile{Name: "New Saw"})

	if err := RemoveCustomProfile("Old Saw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(CustomProfiles) != 1 || CustomProfiles[0].Name != "New Saw" {
		t.Errorf("unexpected profiles after remove: %+v", CustomProfiles)
	}
	if err := RemoveCustomProfile("Old Saw"); err == nil {
		t.Error("removing a missing profile should fail")
	}
	if err := RemoveCustomProfile("Generic"); err == nil {
		t.Error("removing a built-in profile should fail")
	}
}

func TestNewCustomProfile(t *testing.T) {
	p := NewCustomProfile("Shop Saw")
	if p.Name != "Shop Saw" || p.BuiltIn {
		t.Errorf("unexpected profile %+v", p)
	}
	if p.RapidMove != "G0" || p.CutCycle != GetProfile("Generic").CutCycle {
		t.Error("new profiles start from Generic")
	}
	p.StartCode[0] = "G91"
	if GetProfile("Generic").StartCode[0] == "G91" {
		t.Error("new profile shares start code with Generic")
	}
}
