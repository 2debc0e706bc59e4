package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func scenarioA() model.Request {
	return model.Request{
		Cuts:         []float64{52, 48, 48, 45, 36, 24, 24},
		StockLengths: []float64{96, 120},
		Kerf:         0.125,
		TimeBudgetMs: 3000,
	}
}

func scenarioB() model.Request {
	return model.Request{
		Cuts:         []float64{84, 84, 84, 84, 72, 72, 72, 72, 66, 66},
		StockLengths: []float64{96, 120, 144},
		Kerf:         0.125,
		TimeBudgetMs: 0,
	}
}

func TestSolve_ScenarioA_ProvenOptimal(t *testing.T) {
	req := scenarioA()
	heuristic, err := Heuristic(req.Cuts, req.StockLengths, req.Kerf)
	require.NoError(t, err)

	report, err := NewSolver().Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationCompleted, report.Termination)
	assert.Equal(t, model.OptimalityProven, report.Optimality)
	assert.Greater(t, report.ExploredNodes, uint64(0))
	assert.LessOrEqual(t, report.Objective(req.Kerf), heuristic.Objective(req.Kerf)+model.Epsilon)
	assert.Equal(t, len(req.Cuts), report.CutCount())
	assertFeasible(t, report.Solution, req.Kerf)
}

func TestSolve_ScenarioB_ZeroBudget(t *testing.T) {
	req := scenarioB()
	heuristic, err := Heuristic(req.Cuts, req.StockLengths, req.Kerf)
	require.NoError(t, err)

	report, err := NewSolver().Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationTimedOut, report.Termination)
	assert.Equal(t, model.OptimalityNotProven, report.Optimality)
	assert.Equal(t, uint64(0), report.ExploredNodes)
	if diff := cmp.Diff(heuristic.Bins, report.Bins); diff != "" {
		t.Errorf("zero budget bins differ from heuristic (-want +got):\n%s", diff)
	}
}

func TestSolve_ImprovesOnHeuristic(t *testing.T) {
	req := model.Request{Cuts: []float64{60, 60, 36}, StockLengths: []float64{96, 120}, Kerf: 0.125, TimeBudgetMs: 2000}

	report, err := NewSolver().Solve(context.Background(), req)
	require.NoError(t, err)

	// Heuristic uses three 96s; the optimum pairs 60+36 in a 120.
	assert.Equal(t, model.OptimalityProven, report.Optimality)
	assert.Equal(t, 2, report.BinCount)
	assert.Equal(t, 216.0, report.TotalStockLength)
	assert.Equal(t, 59.875, report.TotalWaste)
	assert.Equal(t, 0.125, report.TotalKerfLoss)
	assertFeasible(t, report.Solution, req.Kerf)
}

func TestSolve_EmptyCuts(t *testing.T) {
	report, err := NewSolver().Solve(context.Background(), model.Request{
		Cuts:         []float64{0, -4},
		StockLengths: []float64{96},
		Kerf:         0.125,
		TimeBudgetMs: 1000,
	})
	require.NoError(t, err)

	assert.NotNil(t, report.Bins)
	assert.Empty(t, report.Bins)
	assert.Equal(t, 0, report.BinCount)
	assert.Equal(t, model.TerminationCompleted, report.Termination)
	assert.Equal(t, model.OptimalityProven, report.Optimality)
	assert.Equal(t, uint64(0), report.ExploredNodes)
	assert.Equal(t, 0.0, report.ElapsedMs)
}

func TestSolve_InfeasibleCut(t *testing.T) {
	report, err := NewSolver().Solve(context.Background(), model.Request{
		Cuts:         []float64{40, 130},
		StockLengths: []float64{96, 120},
		TimeBudgetMs: 1000,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, ErrCutTooLong))
	assert.Empty(t, report.Bins, "no partial result on failure")
}

func TestSolve_Deterministic(t *testing.T) {
	req := scenarioA()
	first, err := NewSolver().Solve(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := NewSolver().Solve(context.Background(), req)
		require.NoError(t, err)
		if diff := cmp.Diff(first.Solution, again.Solution); diff != "" {
			t.Fatalf("solve %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestSolve_DominatesHeuristic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	stocks := []float64{72, 96, 120, 144}

	for trial := 0; trial < 25; trial++ {
		n := 2 + rng.Intn(7)
		cuts := make([]float64, n)
		for i := range cuts {
			// Whole inches plus eighths stay exact in binary.
			cuts[i] = float64(6+rng.Intn(100)) + float64(rng.Intn(8))/8
		}
		req := model.Request{Cuts: cuts, StockLengths: stocks, Kerf: 0.125, TimeBudgetMs: 2000}

		heuristic, err := Heuristic(cuts, stocks, req.Kerf)
		require.NoError(t, err)
		report, err := NewSolver().Solve(context.Background(), req)
		require.NoError(t, err)

		assert.LessOrEqual(t, report.Objective(req.Kerf), heuristic.Objective(req.Kerf)+model.Epsilon, "trial %d cuts %v", trial, cuts)
		assert.Equal(t, n, report.CutCount(), "trial %d", trial)
		assertFeasible(t, report.Solution, req.Kerf)
	}
}

func TestSolve_StepClockTimesOut(t *testing.T) {
	req := scenarioB()
	req.TimeBudgetMs = 5
	clock := NewStepClock(time.Millisecond)

	heuristic, err := Heuristic(req.Cuts, req.StockLengths, req.Kerf)
	require.NoError(t, err)

	report, err := NewSolver(WithClock(clock)).Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationTimedOut, report.Termination)
	assert.Equal(t, model.OptimalityNotProven, report.Optimality)
	assert.Greater(t, report.ExploredNodes, uint64(0))
	assert.Greater(t, report.ElapsedMs, 5.0)
	assert.LessOrEqual(t, report.Objective(req.Kerf), heuristic.Objective(req.Kerf)+model.Epsilon)
	assertFeasible(t, report.Solution, req.Kerf)
}

func TestSolve_ZeroBudgetElapsedUsesClock(t *testing.T) {
	clock := NewStepClock(2 * time.Millisecond)
	report, err := NewSolver(WithClock(clock)).Solve(context.Background(), scenarioB())
	require.NoError(t, err)
	assert.Equal(t, 2.0, report.ElapsedMs)
}

func TestSolve_Cancelled(t *testing.T) {
	req := scenarioB()
	req.TimeBudgetMs = 60000
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewSolver().Solve(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationCancelled, report.Termination)
	assert.Equal(t, model.OptimalityNotProven, report.Optimality)
	assert.Equal(t, len(req.Cuts), report.CutCount())
}

func TestSolve_ImprovementsAreMonotonic(t *testing.T) {
	req := model.Request{
		Cuts:         []float64{60, 60, 36, 50, 45, 30, 22.5},
		StockLengths: []float64{96, 120},
		Kerf:         0.125,
		TimeBudgetMs: 3000,
	}
	var seen []float64
	solver := NewSolver(WithOnImprovement(func(s model.Solution) {
		seen = append(seen, s.Objective(req.Kerf))
	}))

	report, err := solver.Solve(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i], seen[i-1]+model.Epsilon)
	}
	assert.InDelta(t, report.Objective(req.Kerf), seen[len(seen)-1], model.Epsilon)
}

func TestSolve_SingleStockExactFit(t *testing.T) {
	req := model.Request{Cuts: []float64{48, 47.875}, StockLengths: []float64{96}, Kerf: 0.125, TimeBudgetMs: 1000}
	report, err := NewSolver().Solve(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 1, report.BinCount)
	assert.Equal(t, 0.0, report.Bins[0].Remaining)
	assert.Equal(t, 96.0, report.TotalUsed)
	assert.Equal(t, 1.0, report.Utilization)
}
