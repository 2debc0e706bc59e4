package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultKerf            float64    `json:"default_kerf"`
	DefaultTimeBudgetMs    int64      `json:"default_time_budget_ms"`
	DefaultMode            SolverMode `json:"default_mode"`
	DefaultMaxCutsForExact int        `json:"default_max_cuts_for_exact"`
	DefaultApproxBudgetMs  int64      `json:"default_approx_budget_ms"`
	DefaultUnit            string     `json:"default_unit"`
	DefaultStockLengths    []float64  `json:"default_stock_lengths"`
	DefaultGCodeProfile    string     `json:"default_gcode_profile"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig matching DefaultSettings.
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultKerf:            defaults.Kerf,
		DefaultTimeBudgetMs:    defaults.TimeBudgetMs,
		DefaultMode:            defaults.Mode,
		DefaultMaxCutsForExact: defaults.MaxCutsForExact,
		DefaultApproxBudgetMs:  defaults.ApproxBudgetMs,
		DefaultUnit:            "inches",
		DefaultStockLengths:    []float64{96, 144, 192},
		DefaultGCodeProfile:    defaults.GCodeProfile,
		RecentProjects:         []string{},
		Theme:                  "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Kerf = c.DefaultKerf
	s.TimeBudgetMs = c.DefaultTimeBudgetMs
	if c.DefaultMode.Valid() {
		s.Mode = c.DefaultMode
	}
	s.MaxCutsForExact = c.DefaultMaxCutsForExact
	s.ApproxBudgetMs = c.DefaultApproxBudgetMs
	s.GCodeProfile = c.DefaultGCodeProfile
}

// NewProject creates a project seeded from the config defaults.
func (c AppConfig) NewProject() Project {
	p := NewProject()
	c.ApplyToSettings(&p.Settings)
	if c.DefaultUnit != "" {
		p.Unit = c.DefaultUnit
	}
	for _, l := range c.DefaultStockLengths {
		p.Stocks = append(p.Stocks, NewStockItem("", l))
	}
	return p
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentProjects = recent
}
