package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench"+FileExtension)

	p := model.NewProject()
	p.Name = "Bench"
	p.Cuts = []model.CutItem{model.NewCutItem("Leg", 34.5, 4)}
	p.Stocks = []model.StockItem{model.NewStockItem("2x4 8'", 96)}
	p.Result = &model.Report{
		Solution: model.Solution{
			Bins:     []model.Bin{{StockLength: 96, Cuts: []float64{34.5, 34.5}, Used: 69.125, Remaining: 26.875}},
			BinCount: 1,
		},
		Termination: model.TerminationCompleted,
		Optimality:  model.OptimalityProven,
	}

	if err := SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Name != "Bench" || len(loaded.Cuts) != 1 || loaded.Cuts[0].Quantity != 4 {
		t.Errorf("unexpected project %+v", loaded)
	}
	if loaded.Result == nil || loaded.Result.Optimality != model.OptimalityProven {
		t.Fatalf("expected result to survive round trip, got %+v", loaded.Result)
	}
	if loaded.Result.Bins[0].Remaining != 26.875 {
		t.Errorf("unexpected remaining %f", loaded.Result.Bins[0].Remaining)
	}
}

func TestLoadProjectDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "min.cutbuddy")
	if err := os.WriteFile(path, []byte(`{"name":"Min","settings":{"kerf":0.1}}`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Cuts == nil || p.Stocks == nil {
		t.Error("expected non-nil cut and stock lists")
	}
	if p.Settings.Mode != model.ModeAuto {
		t.Errorf("expected auto mode, got %q", p.Settings.Mode)
	}
	if p.Unit != "inches" {
		t.Errorf("expected inches, got %q", p.Unit)
	}
	if p.Settings.Kerf != 0.1 {
		t.Errorf("expected kerf 0.1, got %f", p.Settings.Kerf)
	}
}

func TestLoadProjectErrors(t *testing.T) {
	if _, err := LoadProject(filepath.Join(t.TempDir(), "missing.cutbuddy")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.cutbuddy")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
