package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// Progress is a periodic snapshot from a running solve.
type Progress struct {
	ExploredNodes uint64         `json:"exploredNodes"`
	Generation    int            `json:"generation,omitempty"`
	Best          model.Solution `json:"best"`
}

type options struct {
	clock      Clock
	logger     *zap.Logger
	onImprove  func(model.Solution)
	onProgress func(Progress)
}

// Option configures a Solver, Improver or Planner.
type Option func(*options)

// WithClock sets the time source used for deadlines and elapsed time.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnImprovement registers a callback fired each time the incumbent gets
// strictly better. Reported objectives never increase.
func WithOnImprovement(fn func(model.Solution)) Option {
	return func(o *options) { o.onImprove = fn }
}

// WithOnProgress registers a periodic progress callback.
func WithOnProgress(fn func(Progress)) Option {
	return func(o *options) { o.onProgress = fn }
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = SystemClock{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Solver runs the heuristic followed by a time-boxed branch-and-bound search.
// A Solver holds only configuration and is safe for concurrent use; each call
// to Solve allocates its own search state.
type Solver struct {
	opts options
}

func NewSolver(opts ...Option) *Solver {
	return &Solver{opts: buildOptions(opts)}
}

// Solve returns the best assignment it can certify or find within the
// request's time budget. A zero budget skips the search and returns the
// heuristic result marked timed_out and not_proven.
func (s *Solver) Solve(ctx context.Context, req model.Request) (model.Report, error) {
	log := s.opts.logger
	n, err := normalize(req)
	if err != nil {
		log.Debug("request rejected", zap.Error(err))
		return model.Report{}, err
	}

	start := s.opts.clock.Now()
	if len(n.cuts) == 0 {
		return assemble(Summarize(nil, n.kerf), 0, 0, model.TerminationCompleted), nil
	}

	bins, err := packBestFit(n.cuts, n.stocks, n.kerf)
	if err != nil {
		return model.Report{}, err
	}
	heuristic := Summarize(bins, n.kerf)
	log.Debug("heuristic packed",
		zap.Int("cuts", len(n.cuts)),
		zap.Int("stocks", len(n.stocks)),
		zap.Int("bins", heuristic.BinCount),
		zap.Float64("objective", heuristic.Objective(n.kerf)),
	)

	if n.budgetMs == 0 {
		elapsed := model.Round(elapsedMs(s.opts.clock, start), 3)
		return assemble(heuristic, 0, elapsed, model.TerminationTimedOut), nil
	}

	srch := newSearch(n, heuristic, s.opts.clock, start, ctx.Done())
	srch.onImprove = s.opts.onImprove
	srch.onProgress = s.opts.onProgress
	term := srch.run()

	elapsed := model.Round(elapsedMs(s.opts.clock, start), 3)
	log.Debug("search finished",
		zap.String("termination", string(term)),
		zap.Uint64("explored_nodes", srch.explored),
		zap.Int("memo_states", srch.memo.Len()),
		zap.Float64("elapsed_ms", elapsed),
		zap.Float64("objective", srch.best.Objective(n.kerf)),
	)
	return assemble(srch.best, srch.explored, elapsed, term), nil
}

// assemble merges a finalized solution with search diagnostics. Only a
// completed search is proven optimal.
func assemble(sol model.Solution, explored uint64, elapsed float64, term model.Termination) model.Report {
	opt := model.OptimalityNotProven
	if term == model.TerminationCompleted {
		opt = model.OptimalityProven
	}
	return model.Report{
		Solution:      sol,
		ExploredNodes: explored,
		ElapsedMs:     elapsed,
		Termination:   term,
		Optimality:    opt,
	}
}

// deadlineFrom converts a millisecond budget into an absolute deadline.
func deadlineFrom(start time.Time, budgetMs int64) time.Time {
	return start.Add(time.Duration(budgetMs) * time.Millisecond)
}
