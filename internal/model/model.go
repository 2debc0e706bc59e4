package model

import (
	"math"

	"github.com/google/uuid"
)

// Epsilon is the shared floating tolerance for every length comparison.
const Epsilon = 1e-9

// Termination reports why a solve stopped.
type Termination string

const (
	TerminationCompleted Termination = "completed" // Search tree exhausted
	TerminationTimedOut  Termination = "timed_out" // Deadline fired, or zero budget
	TerminationCancelled Termination = "cancelled" // Caller cancelled the context
)

// Optimality reports whether the returned assignment is certified.
type Optimality string

const (
	OptimalityProven    Optimality = "proven_optimal"
	OptimalityNotProven Optimality = "not_proven"
)

// SolverMode selects which engine path answers a request.
type SolverMode string

const (
	ModeHeuristic SolverMode = "heuristic" // Best-fit decreasing only
	ModeExact     SolverMode = "exact"     // Branch-and-bound seeded by the heuristic
	ModeApprox    SolverMode = "approx"    // Anytime genetic improver
	ModeAuto      SolverMode = "auto"      // Exact when small enough, approx otherwise
)

// Valid reports whether m is a known solver mode.
func (m SolverMode) Valid() bool {
	switch m {
	case ModeHeuristic, ModeExact, ModeApprox, ModeAuto:
		return true
	}
	return false
}

// Bin is one stock instance holding an ordered sequence of cuts.
type Bin struct {
	StockLength float64   `json:"stockLength"`
	Cuts        []float64 `json:"cuts"`
	Used        float64   `json:"used"`
	Remaining   float64   `json:"remaining"`
}

// NewBin opens a bin of the given stock length holding a single cut.
func NewBin(stockLength, cut float64) Bin {
	return Bin{
		StockLength: stockLength,
		Cuts:        []float64{cut},
		Used:        cut,
		Remaining:   Round(stockLength-cut, 6),
	}
}

// Clone returns a deep copy of the bin.
func (b Bin) Clone() Bin {
	cp := b
	cp.Cuts = append([]float64(nil), b.Cuts...)
	return cp
}

// KerfLoss returns the material lost to cut boundaries inside the bin.
func (b Bin) KerfLoss(kerf float64) float64 {
	if len(b.Cuts) <= 1 {
		return 0
	}
	return float64(len(b.Cuts)-1) * kerf
}

// ExpectedUsed recomputes used length from the cuts and kerf.
func (b Bin) ExpectedUsed(kerf float64) float64 {
	var sum float64
	for _, c := range b.Cuts {
		sum += c
	}
	return sum + b.KerfLoss(kerf)
}

// Offsets returns the start position of every cut measured from the bin's
// left end, including one kerf between consecutive cuts.
func (b Bin) Offsets(kerf float64) []float64 {
	offsets := make([]float64, len(b.Cuts))
	pos := 0.0
	for i, c := range b.Cuts {
		offsets[i] = pos
		pos += c + kerf
	}
	return offsets
}

// CloneBins deep-copies a bin slice.
func CloneBins(bins []Bin) []Bin {
	out := make([]Bin, len(bins))
	for i, b := range bins {
		out[i] = b.Clone()
	}
	return out
}

// Solution is a complete assignment of cuts to bins plus derived totals.
// Totals are produced by the engine summarizer and never edited directly.
type Solution struct {
	Bins             []Bin   `json:"bins"`
	BinCount         int     `json:"binCount"`
	TotalUsed        float64 `json:"totalUsed"`
	TotalWaste       float64 `json:"totalWaste"`
	TotalStockLength float64 `json:"totalStockLength"`
	TotalKerfLoss    float64 `json:"totalKerfLoss"`
	Utilization      float64 `json:"utilization"`
}

// Objective is total stock length plus a kerf surcharge per bin.
func (s Solution) Objective(kerf float64) float64 {
	return s.TotalStockLength + kerf*float64(s.BinCount)
}

// CutCount returns the number of cuts placed across all bins.
func (s Solution) CutCount() int {
	n := 0
	for _, b := range s.Bins {
		n += len(b.Cuts)
	}
	return n
}

// WastePercent returns the wasted share of purchased stock in percent.
func (s Solution) WastePercent() float64 {
	if s.TotalStockLength == 0 {
		return 0
	}
	return 100.0 - s.Utilization*100.0
}

// Report is the immutable result of one solve request.
type Report struct {
	Solution
	ExploredNodes uint64      `json:"exploredNodes"`
	ElapsedMs     float64     `json:"elapsedMs"`
	Termination   Termination `json:"termination"`
	Optimality    Optimality  `json:"optimality"`
	Mode          SolverMode  `json:"mode,omitempty"`
}

// Request is the caller-facing solve payload.
type Request struct {
	Cuts         []float64 `json:"cuts" yaml:"cuts"`
	StockLengths []float64 `json:"stockLengths" yaml:"stockLengths"`
	Kerf         float64   `json:"kerf" yaml:"kerf"`
	TimeBudgetMs int64     `json:"timeBudgetMs" yaml:"timeBudgetMs"`
}

// ErrorResponse is the failure payload returned across the boundary.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(v*factor) / factor
}

// CutItem is a named cut-list line with a quantity. Lengths are stored in inches.
type CutItem struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
}

func NewCutItem(label string, length float64, qty int) CutItem {
	return CutItem{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// StockItem is an available raw length with an optional unit price.
type StockItem struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Length float64 `json:"length"`
	Price  float64 `json:"price"`
}

func NewStockItem(label string, length float64) StockItem {
	return StockItem{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Length: length,
	}
}

// Settings holds solver and export configuration for a project.
type Settings struct {
	Kerf            float64    `json:"kerf"`              // Blade width, inches
	TimeBudgetMs    int64      `json:"time_budget_ms"`    // Exact search budget
	Mode            SolverMode `json:"mode"`              // heuristic, exact, approx or auto
	MaxCutsForExact int        `json:"max_cuts_for_exact"` // 0 disables the guardrail
	ApproxBudgetMs  int64      `json:"approx_budget_ms"`  // Approximate improver budget
	Seed            int64      `json:"seed"`              // Improver seed, 0 = time based
	MinOffcut       float64    `json:"min_offcut"`        // Shortest remnant worth keeping, inches
	GCodeProfile    string     `json:"gcode_profile"`     // Saw controller profile name
}

func DefaultSettings() Settings {
	return Settings{
		Kerf:            0.125,
		TimeBudgetMs:    3000,
		Mode:            ModeAuto,
		MaxCutsForExact: 16,
		ApproxBudgetMs:  3000,
		MinOffcut:       12,
		GCodeProfile:    "Generic",
	}
}

// Project ties everything together for save/load.
type Project struct {
	Name     string      `json:"name"`
	Unit     string      `json:"unit"`
	Cuts     []CutItem   `json:"cuts"`
	Stocks   []StockItem `json:"stocks"`
	Settings Settings    `json:"settings"`
	Result   *Report     `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Unit:     "inches",
		Cuts:     []CutItem{},
		Stocks:   []StockItem{},
		Settings: DefaultSettings(),
	}
}

// Request expands cut quantities into a solve request.
func (p Project) Request() Request {
	req := Request{
		Cuts:         []float64{},
		StockLengths: []float64{},
		Kerf:         p.Settings.Kerf,
		TimeBudgetMs: p.Settings.TimeBudgetMs,
	}
	for _, c := range p.Cuts {
		for i := 0; i < c.Quantity; i++ {
			req.Cuts = append(req.Cuts, c.Length)
		}
	}
	for _, s := range p.Stocks {
		req.StockLengths = append(req.StockLengths, s.Length)
	}
	return req
}

// LabelFor returns the label of the first cut item matching length, or "".
func (p Project) LabelFor(length float64) string {
	for _, c := range p.Cuts {
		if math.Abs(c.Length-length) <= Epsilon {
			return c.Label
		}
	}
	return ""
}
