package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewBin(t *testing.T) {
	b := NewBin(96, 40.1)
	if b.StockLength != 96 || len(b.Cuts) != 1 || b.Used != 40.1 {
		t.Errorf("unexpected bin: %+v", b)
	}
	if b.Remaining != 55.9 {
		t.Errorf("expected remaining 55.9, got %v", b.Remaining)
	}
}

func TestBinClone(t *testing.T) {
	b := NewBin(96, 40)
	cp := b.Clone()
	cp.Cuts = append(cp.Cuts, 10)
	cp.Cuts[0] = 1
	if len(b.Cuts) != 1 || b.Cuts[0] != 40 {
		t.Errorf("clone shares cut storage with original: %+v", b)
	}
}

func TestBinKerfLoss(t *testing.T) {
	tests := []struct {
		name string
		cuts []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{40}, 0},
		{"two", []float64{40, 40}, 0.125},
		{"four", []float64{10, 10, 10, 10}, 0.375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bin{StockLength: 96, Cuts: tt.cuts}
			if got := b.KerfLoss(0.125); got != tt.want {
				t.Errorf("KerfLoss() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinExpectedUsedAndOffsets(t *testing.T) {
	b := Bin{StockLength: 96, Cuts: []float64{40, 30, 20}}
	if got := b.ExpectedUsed(0.125); got != 90.25 {
		t.Errorf("ExpectedUsed() = %v, want 90.25", got)
	}
	offsets := b.Offsets(0.125)
	want := []float64{0, 40.125, 70.25}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("offset[%d] = %v, want %v", i, offsets[i], want[i])
		}
	}
}

func TestSolutionObjective(t *testing.T) {
	s := Solution{BinCount: 3, TotalStockLength: 312}
	if got := s.Objective(0.125); got != 312.375 {
		t.Errorf("Objective() = %v, want 312.375", got)
	}
}

func TestSolutionWastePercent(t *testing.T) {
	if got := (Solution{}).WastePercent(); got != 0 {
		t.Errorf("empty WastePercent() = %v, want 0", got)
	}
	s := Solution{TotalStockLength: 100, Utilization: 0.75}
	if got := s.WastePercent(); got != 25 {
		t.Errorf("WastePercent() = %v, want 25", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		digits int
		want   float64
	}{
		{1.23456789, 3, 1.235},
		{0.1 + 0.2, 6, 0.3},
		{-2.5, 0, -3},
		{55.9999999, 6, 56},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.digits); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.digits, got, tt.want)
		}
	}
}

func TestSolverModeValid(t *testing.T) {
	for _, m := range []SolverMode{ModeHeuristic, ModeExact, ModeApprox, ModeAuto} {
		if !m.Valid() {
			t.Errorf("mode %s should be valid", m)
		}
	}
	if SolverMode("quantum").Valid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	r := Report{
		Solution:      Solution{Bins: []Bin{NewBin(96, 40)}, BinCount: 1},
		ExploredNodes: 7,
		Termination:   TerminationCompleted,
		Optimality:    OptimalityProven,
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, key := range []string{
		`"bins"`, `"binCount"`, `"totalUsed"`, `"totalWaste"`, `"totalStockLength"`,
		`"totalKerfLoss"`, `"utilization"`, `"exploredNodes":7`, `"elapsedMs"`,
		`"termination":"completed"`, `"optimality":"proven_optimal"`, `"stockLength"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("report JSON missing %s: %s", key, out)
		}
	}
	if strings.Contains(out, `"mode"`) {
		t.Errorf("empty mode should be omitted: %s", out)
	}
}

func TestProjectRequestExpandsQuantities(t *testing.T) {
	p := NewProject()
	p.Cuts = []CutItem{NewCutItem("Rail", 34.5, 3), NewCutItem("Skip", 10, 0)}
	p.Stocks = []StockItem{NewStockItem("8'", 96), NewStockItem("12'", 144)}

	req := p.Request()
	if len(req.Cuts) != 3 {
		t.Fatalf("expected 3 cuts, got %d", len(req.Cuts))
	}
	if len(req.StockLengths) != 2 {
		t.Errorf("expected 2 stock lengths, got %d", len(req.StockLengths))
	}
	if req.Kerf != 0.125 || req.TimeBudgetMs != 3000 {
		t.Errorf("request did not inherit settings: %+v", req)
	}

	empty := NewProject().Request()
	if empty.Cuts == nil || empty.StockLengths == nil {
		t.Error("request slices should be empty, not nil")
	}
}

func TestProjectLabelFor(t *testing.T) {
	p := NewProject()
	p.Cuts = []CutItem{NewCutItem("Rail", 34.5, 1)}
	if got := p.LabelFor(34.5); got != "Rail" {
		t.Errorf("LabelFor(34.5) = %q, want Rail", got)
	}
	if got := p.LabelFor(12); got != "" {
		t.Errorf("LabelFor(12) = %q, want empty", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Kerf != 0.125 || s.TimeBudgetMs != 3000 || s.Mode != ModeAuto {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.MaxCutsForExact != 16 || s.ApproxBudgetMs != 3000 {
		t.Errorf("unexpected mode guardrails: %+v", s)
	}
}
