// Package worker runs solve requests off the caller's goroutine and streams
// their progress as events.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/model"
)

var (
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("worker: runner closed")
	// ErrUnknownJob is returned for a job id the runner never issued.
	ErrUnknownJob = errors.New("worker: unknown job")
	// ErrCancelled is returned by Wait for a job that was cancelled.
	ErrCancelled = errors.New("worker: job cancelled")
)

// JobID identifies one submitted request.
type JobID string

// EventType tags an Event.
type EventType string

const (
	EventProgress    EventType = "progress"
	EventImprovement EventType = "improvement"
	EventDone        EventType = "done"
	EventError       EventType = "error"
)

// Event is one message from a running job. Exactly one of Progress,
// Improvement, Report or Err is set, matching Type.
type Event struct {
	Type        EventType
	JobID       JobID
	Progress    *engine.Progress
	Improvement *model.Solution
	Report      *model.Report
	Err         error
}

type job struct {
	id     JobID
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	best      float64
	hasBest   bool
	report    model.Report
	err       error
	finished  bool
	cancelled bool
}

// markCancelled flags a job that has not finished yet.
func (j *job) markCancelled() {
	j.mu.Lock()
	if !j.finished {
		j.cancelled = true
	}
	j.mu.Unlock()
	j.cancel()
}

// offer reports whether sol beats every improvement already forwarded.
// Auto mode runs two engines that both report improvements.
func (j *job) offer(sol model.Solution, kerf float64) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	obj := sol.Objective(kerf)
	if j.hasBest && obj >= j.best-model.Epsilon {
		return false
	}
	j.best = obj
	j.hasBest = true
	return true
}

type runnerOptions struct {
	logger     *zap.Logger
	buffer     int
	engineOpts []engine.Option
}

// Option configures a Runner.
type Option func(*runnerOptions)

func WithLogger(l *zap.Logger) Option {
	return func(o *runnerOptions) { o.logger = l }
}

// WithBuffer sets the capacity of the events channel.
func WithBuffer(n int) Option {
	return func(o *runnerOptions) { o.buffer = n }
}

// WithEngineOptions passes extra options, such as a clock, to every planner.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *runnerOptions) { o.engineOpts = append(o.engineOpts, opts...) }
}

// Runner executes solve jobs on background goroutines. Every job reports
// through the shared Events channel.
type Runner struct {
	logger     *zap.Logger
	engineOpts []engine.Option
	events     chan Event
	closing    chan struct{}

	mu     sync.Mutex
	jobs   map[JobID]*job
	closed bool
	wg     sync.WaitGroup
}

func NewRunner(opts ...Option) *Runner {
	o := runnerOptions{logger: zap.NewNop(), buffer: 64}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.buffer < 0 {
		o.buffer = 0
	}
	return &Runner{
		logger:     o.logger,
		engineOpts: o.engineOpts,
		events:     make(chan Event, o.buffer),
		closing:    make(chan struct{}),
		jobs:       make(map[JobID]*job),
	}
}

// Events returns the channel every job reports on. It is closed by Close.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Submit starts solving req with settings and returns the new job's id.
// The request kerf and budget take precedence over the settings.
func (r *Runner) Submit(ctx context.Context, req model.Request, settings model.Settings) (JobID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrClosed
	}

	jctx, cancel := context.WithCancel(ctx)
	j := &job{
		id:     JobID(uuid.New().String()),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.jobs[j.id] = j
	r.wg.Add(1)
	go r.run(jctx, j, req, settings)

	r.logger.Debug("job submitted",
		zap.String("job", string(j.id)),
		zap.String("mode", string(settings.Mode)),
		zap.Int("cuts", len(req.Cuts)))
	return j.id, nil
}

func (r *Runner) run(ctx context.Context, j *job, req model.Request, settings model.Settings) {
	defer r.wg.Done()
	defer close(j.done)
	defer j.cancel()

	opts := append([]engine.Option{
		engine.WithLogger(r.logger.With(zap.String("job", string(j.id)))),
		engine.WithOnImprovement(func(sol model.Solution) {
			if !j.offer(sol, req.Kerf) {
				return
			}
			s := sol
			r.send(ctx, Event{Type: EventImprovement, JobID: j.id, Improvement: &s}, true)
		}),
		engine.WithOnProgress(func(p engine.Progress) {
			pr := p
			r.send(ctx, Event{Type: EventProgress, JobID: j.id, Progress: &pr}, false)
		}),
	}, r.engineOpts...)

	report, err := r.plan(ctx, opts, req, settings)

	j.mu.Lock()
	j.report = report
	j.err = err
	j.finished = true
	if ctx.Err() != nil {
		j.cancelled = true
	}
	cancelled := j.cancelled
	j.mu.Unlock()

	if cancelled {
		r.logger.Debug("job cancelled", zap.String("job", string(j.id)))
		return
	}
	if err != nil {
		r.logger.Warn("job failed", zap.String("job", string(j.id)), zap.Error(err))
		r.final(Event{Type: EventError, JobID: j.id, Err: err})
		return
	}
	rep := report
	r.final(Event{Type: EventDone, JobID: j.id, Report: &rep})
}

func (r *Runner) plan(ctx context.Context, opts []engine.Option, req model.Request, settings model.Settings) (report model.Report, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = engine.Recovered(v)
		}
	}()
	return engine.NewPlanner(settings, opts...).Plan(ctx, req)
}

// send delivers a streaming event. Blocking sends wait until the job is
// cancelled; non-blocking sends drop the event when the channel is full.
func (r *Runner) send(ctx context.Context, ev Event, block bool) {
	if ctx.Err() != nil {
		return
	}
	if !block {
		select {
		case r.events <- ev:
		default:
		}
		return
	}
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

func (r *Runner) final(ev Event) {
	select {
	case r.events <- ev:
	case <-r.closing:
	}
}

// Cancel stops a job. A cancelled job emits no done or error event.
func (r *Runner) Cancel(id JobID) error {
	j, err := r.lookup(id)
	if err != nil {
		return err
	}
	j.markCancelled()
	return nil
}

// Wait blocks until the job finishes and returns its report.
func (r *Runner) Wait(ctx context.Context, id JobID) (model.Report, error) {
	j, err := r.lookup(id)
	if err != nil {
		return model.Report{}, err
	}
	select {
	case <-j.done:
	case <-ctx.Done():
		return model.Report{}, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancelled {
		return model.Report{}, ErrCancelled
	}
	return j.report, j.err
}

// Forget drops a finished job's bookkeeping.
func (r *Runner) Forget(id JobID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		select {
		case <-j.done:
			delete(r.jobs, id)
		default:
		}
	}
}

func (r *Runner) lookup(id JobID) (*job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrUnknownJob
	}
	return j, nil
}

// Close cancels every job, waits for them to exit and closes Events.
// It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.closing)
	for _, j := range r.jobs {
		j.markCancelled()
	}
	r.mu.Unlock()

	r.wg.Wait()
	close(r.events)
}
