package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultKerf != defaults.Kerf {
		t.Errorf("Kerf mismatch: config=%f settings=%f", cfg.DefaultKerf, defaults.Kerf)
	}
	if cfg.DefaultTimeBudgetMs != defaults.TimeBudgetMs {
		t.Errorf("TimeBudgetMs mismatch: config=%d settings=%d", cfg.DefaultTimeBudgetMs, defaults.TimeBudgetMs)
	}
	if cfg.DefaultMode != defaults.Mode {
		t.Errorf("Mode mismatch: config=%s settings=%s", cfg.DefaultMode, defaults.Mode)
	}
	if cfg.DefaultGCodeProfile != defaults.GCodeProfile {
		t.Errorf("GCodeProfile mismatch: config=%s settings=%s", cfg.DefaultGCodeProfile, defaults.GCodeProfile)
	}
	if cfg.DefaultUnit != "inches" {
		t.Errorf("expected default unit=inches, got %s", cfg.DefaultUnit)
	}
	if len(cfg.DefaultStockLengths) != 3 {
		t.Errorf("expected 3 default stock lengths, got %d", len(cfg.DefaultStockLengths))
	}
	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultKerf = 0.09375
	cfg.DefaultTimeBudgetMs = 500
	cfg.DefaultMode = ModeExact
	cfg.DefaultGCodeProfile = "Grbl"

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Kerf != 0.09375 {
		t.Errorf("expected Kerf=0.09375, got %f", s.Kerf)
	}
	if s.TimeBudgetMs != 500 {
		t.Errorf("expected TimeBudgetMs=500, got %d", s.TimeBudgetMs)
	}
	if s.Mode != ModeExact {
		t.Errorf("expected Mode=exact, got %s", s.Mode)
	}
	if s.GCodeProfile != "Grbl" {
		t.Errorf("expected GCodeProfile=Grbl, got %s", s.GCodeProfile)
	}
}

func TestApplyToSettingsKeepsModeWhenInvalid(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMode = "bogus"

	s := DefaultSettings()
	s.Mode = ModeHeuristic
	cfg.ApplyToSettings(&s)

	if s.Mode != ModeHeuristic {
		t.Errorf("expected Mode to stay heuristic, got %s", s.Mode)
	}
}

func TestAppConfigNewProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultUnit = "mm"
	p := cfg.NewProject()

	if p.Unit != "mm" {
		t.Errorf("expected unit mm, got %s", p.Unit)
	}
	if len(p.Stocks) != 3 {
		t.Fatalf("expected 3 stocks, got %d", len(p.Stocks))
	}
	if p.Stocks[0].Length != 96 {
		t.Errorf("expected first stock 96, got %f", p.Stocks[0].Length)
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("a.cutbuddy", 3)
	cfg.AddRecentProject("b.cutbuddy", 3)
	cfg.AddRecentProject("a.cutbuddy", 3)
	cfg.AddRecentProject("c.cutbuddy", 3)
	cfg.AddRecentProject("d.cutbuddy", 3)

	want := []string{"d.cutbuddy", "c.cutbuddy", "a.cutbuddy"}
	if len(cfg.RecentProjects) != len(want) {
		t.Fatalf("expected %d recent projects, got %d", len(want), len(cfg.RecentProjects))
	}
	for i, w := range want {
		if cfg.RecentProjects[i] != w {
			t.Errorf("recent[%d] = %s, want %s", i, cfg.RecentProjects[i], w)
		}
	}
}
