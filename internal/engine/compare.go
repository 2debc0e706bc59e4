package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the report and headline numbers for one scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario `json:"scenario"`
	Report       model.Report       `json:"report"`
	BinsUsed     int                `json:"binsUsed"`
	TotalCuts    int                `json:"totalCuts"`
	WastePercent float64            `json:"wastePercent"`
	Objective    float64            `json:"objective"`
}

// CompareScenarios solves the same cut list under every scenario
// concurrently. Results come back in scenario order. The first failing
// scenario cancels the rest and its error is returned.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, cuts, stocks []float64, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		g.Go(func() error {
			req := model.Request{
				Cuts:         cuts,
				StockLengths: stocks,
				Kerf:         scenario.Settings.Kerf,
				TimeBudgetMs: scenario.Settings.TimeBudgetMs,
			}
			report, err := NewPlanner(scenario.Settings, opts...).Plan(gctx, req)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			results[i] = ComparisonResult{
				Scenario:     scenario,
				Report:       report,
				BinsUsed:     report.BinCount,
				TotalCuts:    report.CutCount(),
				WastePercent: report.WastePercent(),
				Objective:    report.Objective(req.Kerf),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestScenario returns the index of the result with the best solution.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Objective < results[best].Objective-model.Epsilon {
			best = i
		}
	}
	return best
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: the plain heuristic, the other search strategy, and a thinner blade.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	if base.Mode != model.ModeHeuristic {
		h := base
		h.Mode = model.ModeHeuristic
		scenarios = append(scenarios, ComparisonScenario{Name: "Heuristic Only", Settings: h})
	}

	alt := base
	if base.Mode == model.ModeApprox {
		alt.Mode = model.ModeExact
		scenarios = append(scenarios, ComparisonScenario{Name: "Exact Search", Settings: alt})
	} else {
		alt.Mode = model.ModeApprox
		scenarios = append(scenarios, ComparisonScenario{Name: "Approximate Improver", Settings: alt})
	}

	if base.Kerf > 0 {
		thin := base
		thin.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.4g in (half)", thin.Kerf),
			Settings: thin,
		})
	}

	return scenarios
}
