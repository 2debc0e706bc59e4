package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// Planner picks the engine path for a request from the solver mode.
type Planner struct {
	settings model.Settings
	solver   *Solver
	improver *Improver
	logger   *zap.Logger
}

// NewPlanner builds a planner for the given settings. Options are shared by
// the exact solver and the improver.
func NewPlanner(settings model.Settings, opts ...Option) *Planner {
	o := buildOptions(opts)
	return &Planner{
		settings: settings,
		solver:   NewSolver(opts...),
		improver: NewImprover(settings.Seed, opts...),
		logger:   o.logger,
	}
}

// ExactEligible reports whether a cut list is small enough for the exact
// search. A guardrail of 0 or less disables the limit.
func ExactEligible(cutCount, maxCutsForExact int) bool {
	return maxCutsForExact <= 0 || cutCount <= maxCutsForExact
}

// Plan solves req with the configured mode:
//   - heuristic: best-fit decreasing only
//   - exact: branch-and-bound, falling back to heuristic above the guardrail
//   - approx: the genetic improver
//   - auto: exact and approx together when eligible, else approx alone
func (p *Planner) Plan(ctx context.Context, req model.Request) (model.Report, error) {
	mode := p.settings.Mode
	if !mode.Valid() {
		mode = model.ModeAuto
	}
	eligible := ExactEligible(len(positiveFinite(req.Cuts)), p.settings.MaxCutsForExact)

	switch mode {
	case model.ModeHeuristic:
		return p.heuristic(ctx, req)
	case model.ModeExact:
		if !eligible {
			p.logger.Info("cut count above exact guardrail, falling back to heuristic",
				zap.Int("max_cuts_for_exact", p.settings.MaxCutsForExact))
			return p.heuristic(ctx, req)
		}
		return p.exact(ctx, req)
	case model.ModeApprox:
		return p.approx(ctx, req)
	}

	if !eligible {
		return p.approx(ctx, req)
	}
	return p.auto(ctx, req)
}

func (p *Planner) heuristic(ctx context.Context, req model.Request) (model.Report, error) {
	req.TimeBudgetMs = 0
	r, err := p.solver.Solve(ctx, req)
	if err != nil {
		return model.Report{}, err
	}
	r.Mode = model.ModeHeuristic
	return r, nil
}

func (p *Planner) exact(ctx context.Context, req model.Request) (model.Report, error) {
	r, err := p.solver.Solve(ctx, req)
	if err != nil {
		return model.Report{}, err
	}
	r.Mode = model.ModeExact
	return r, nil
}

func (p *Planner) approx(ctx context.Context, req model.Request) (model.Report, error) {
	r, err := p.improver.Improve(ctx, req, p.settings.ApproxBudgetMs)
	if err != nil {
		return model.Report{}, err
	}
	r.Mode = model.ModeApprox
	return r, nil
}

// auto races the exact search against the improver. A proven optimum stops
// the improver early; otherwise the better report wins, exact on ties.
func (p *Planner) auto(ctx context.Context, req model.Request) (model.Report, error) {
	var exact, approx model.Report
	g, gctx := errgroup.WithContext(ctx)
	approxCtx, cancelApprox := context.WithCancel(gctx)
	defer cancelApprox()

	g.Go(func() error {
		r, err := p.exact(gctx, req)
		if err != nil {
			return err
		}
		exact = r
		if r.Optimality == model.OptimalityProven {
			cancelApprox()
		}
		return nil
	})
	g.Go(func() error {
		r, err := p.approx(approxCtx, req)
		if err != nil {
			return err
		}
		approx = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Report{}, err
	}

	if exact.Optimality == model.OptimalityProven || !Better(approx.Solution, exact.Solution, req.Kerf) {
		return exact, nil
	}
	p.logger.Debug("approximate improver beat the exact search",
		zap.Float64("approx_objective", approx.Objective(req.Kerf)),
		zap.Float64("exact_objective", exact.Objective(req.Kerf)),
	)
	return approx, nil
}
