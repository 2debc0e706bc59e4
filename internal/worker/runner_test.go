package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallRequest() model.Request {
	return model.Request{
		Cuts:         []float64{52, 48, 48, 45, 36, 24, 24},
		StockLengths: []float64{96, 120},
		Kerf:         0.125,
		TimeBudgetMs: 2000,
	}
}

func largeRequest() model.Request {
	req := model.Request{
		StockLengths: []float64{96, 120, 144},
		Kerf:         0.125,
		TimeBudgetMs: 60000,
	}
	for i := 0; i < 60; i++ {
		req.Cuts = append(req.Cuts, float64(13+(i*7)%61))
	}
	return req
}

func settingsFor(mode model.SolverMode) model.Settings {
	s := model.DefaultSettings()
	s.Mode = mode
	s.Seed = 11
	s.ApproxBudgetMs = 1000
	return s
}

// collect reads events for id until a done or error event arrives.
func collect(t *testing.T, r *Runner, id JobID) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(30 * time.Second)
	for {
		select {
		case ev, ok := <-r.Events():
			if !ok {
				return out
			}
			if ev.JobID != id {
				continue
			}
			out = append(out, ev)
			if ev.Type == EventDone || ev.Type == EventError {
				return out
			}
		case <-timeout:
			t.Fatal("timed out waiting for job to finish")
			return out
		}
	}
}

func TestRunner_HeuristicJobEmitsDone(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	id, err := r.Submit(context.Background(), smallRequest(), settingsFor(model.ModeHeuristic))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	events := collect(t, r, id)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.Equal(t, EventDone, last.Type)
	require.NotNil(t, last.Report)
	assert.Equal(t, model.ModeHeuristic, last.Report.Mode)

	report, err := r.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, last.Report.BinCount, report.BinCount)
}

func TestRunner_ValidationErrorEmitsError(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	req := smallRequest()
	req.StockLengths = nil
	id, err := r.Submit(context.Background(), req, settingsFor(model.ModeExact))
	require.NoError(t, err)

	events := collect(t, r, id)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.ErrorIs(t, last.Err, engine.ErrNoStock)

	_, err = r.Wait(context.Background(), id)
	assert.True(t, engine.IsValidation(err))
}

func TestRunner_ImprovementsStrictlyDecrease(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	req := smallRequest()
	id, err := r.Submit(context.Background(), req, settingsFor(model.ModeAuto))
	require.NoError(t, err)

	events := collect(t, r, id)
	require.Equal(t, EventDone, events[len(events)-1].Type)

	var objectives []float64
	for _, ev := range events {
		if ev.Type == EventImprovement {
			require.NotNil(t, ev.Improvement)
			objectives = append(objectives, ev.Improvement.Objective(req.Kerf))
		}
	}
	for i := 1; i < len(objectives); i++ {
		assert.Less(t, objectives[i], objectives[i-1])
	}

	final := events[len(events)-1].Report
	if len(objectives) > 0 {
		assert.LessOrEqual(t, final.Objective(req.Kerf), objectives[len(objectives)-1]+model.Epsilon)
	}
}

func TestRunner_CancelledJobNeverEmitsDone(t *testing.T) {
	r := NewRunner(WithBuffer(0))

	s := settingsFor(model.ModeApprox)
	s.ApproxBudgetMs = 60000
	id, err := r.Submit(context.Background(), largeRequest(), s)
	require.NoError(t, err)
	require.NoError(t, r.Cancel(id))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = r.Wait(ctx, id)
	assert.ErrorIs(t, err, ErrCancelled)

	go r.Close()
	for ev := range r.Events() {
		assert.NotEqual(t, EventDone, ev.Type)
		assert.NotEqual(t, EventError, ev.Type)
	}
}

func TestRunner_ParentContextCancels(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := settingsFor(model.ModeApprox)
	s.ApproxBudgetMs = 60000
	id, err := r.Submit(ctx, largeRequest(), s)
	require.NoError(t, err)
	cancel()

	_, err = r.Wait(context.Background(), id)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRunner_CloseStopsRunningJobs(t *testing.T) {
	r := NewRunner()

	s := settingsFor(model.ModeApprox)
	s.ApproxBudgetMs = 60000
	id, err := r.Submit(context.Background(), largeRequest(), s)
	require.NoError(t, err)

	r.Close()
	r.Close()

	_, err = r.Wait(context.Background(), id)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = r.Submit(context.Background(), smallRequest(), s)
	assert.ErrorIs(t, err, ErrClosed)

	for ev := range r.Events() {
		assert.NotEqual(t, EventDone, ev.Type)
	}
}

func TestRunner_UnknownJob(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	assert.ErrorIs(t, r.Cancel("missing"), ErrUnknownJob)
	_, err := r.Wait(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestRunner_CancelAfterDoneKeepsReport(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	id, err := r.Submit(context.Background(), smallRequest(), settingsFor(model.ModeHeuristic))
	require.NoError(t, err)
	collect(t, r, id)

	report, err := r.Wait(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, r.Cancel(id))

	again, err := r.Wait(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, report.BinCount, again.BinCount)

	r.Forget(id)
	_, err = r.Wait(context.Background(), id)
	assert.ErrorIs(t, err, ErrUnknownJob)
}
