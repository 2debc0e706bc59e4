package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func makeImproverRequest() model.Request {
	return model.Request{
		Cuts:         []float64{84, 84, 72, 72, 66, 66, 52, 48, 45, 36, 24, 24, 18, 12.5},
		StockLengths: []float64{96, 120, 144},
		Kerf:         0.125,
	}
}

func TestImprover_NeverWorseThanHeuristic(t *testing.T) {
	req := makeImproverRequest()
	heuristic, err := Heuristic(req.Cuts, req.StockLengths, req.Kerf)
	require.NoError(t, err)

	report, err := NewImprover(42).Improve(context.Background(), req, 5000)
	require.NoError(t, err)

	assert.LessOrEqual(t, report.Objective(req.Kerf), heuristic.Objective(req.Kerf)+model.Epsilon)
	assert.Equal(t, len(req.Cuts), report.CutCount())
	assert.Equal(t, model.OptimalityNotProven, report.Optimality)
	assert.Equal(t, model.ModeApprox, report.Mode)
	assert.Greater(t, report.ExploredNodes, uint64(0))
	assertFeasible(t, report.Solution, req.Kerf)
}

func TestImprover_SameSeedSameResult(t *testing.T) {
	req := makeImproverRequest()
	cfg := GeneticConfig{PopulationSize: 20, Generations: 15, MutationRate: 0.2, TournamentSize: 3, EliteCount: 2}

	a, err := NewImprover(7).WithConfig(cfg).Improve(context.Background(), req, 60000)
	require.NoError(t, err)
	b, err := NewImprover(7).WithConfig(cfg).Improve(context.Background(), req, 60000)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationCompleted, a.Termination)
	if diff := cmp.Diff(a.Solution, b.Solution); diff != "" {
		t.Errorf("same seed produced different packings (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.ExploredNodes, b.ExploredNodes)
}

func TestImprover_ImprovementsAreMonotonic(t *testing.T) {
	req := makeImproverRequest()
	var seen []float64
	im := NewImprover(3, WithOnImprovement(func(s model.Solution) {
		seen = append(seen, s.Objective(req.Kerf))
	}))

	report, err := im.Improve(context.Background(), req, 5000)
	require.NoError(t, err)

	for i := 1; i < len(seen); i++ {
		assert.LessOrEqual(t, seen[i], seen[i-1]+model.Epsilon)
	}
	if len(seen) > 0 {
		assert.InDelta(t, report.Objective(req.Kerf), seen[len(seen)-1], model.Epsilon)
	}
}

func TestImprover_ReportsProgressPerGeneration(t *testing.T) {
	req := makeImproverRequest()
	cfg := GeneticConfig{PopulationSize: 10, Generations: 5, MutationRate: 0.2, TournamentSize: 2, EliteCount: 1}
	var generations []int
	im := NewImprover(1, WithOnProgress(func(p Progress) {
		generations = append(generations, p.Generation)
	})).WithConfig(cfg)

	_, err := im.Improve(context.Background(), req, 60000)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, generations)
}

func TestImprover_ZeroBudgetReturnsHeuristic(t *testing.T) {
	req := makeImproverRequest()
	heuristic, err := Heuristic(req.Cuts, req.StockLengths, req.Kerf)
	require.NoError(t, err)

	report, err := NewImprover(1).Improve(context.Background(), req, 0)
	require.NoError(t, err)

	assert.Equal(t, model.TerminationTimedOut, report.Termination)
	assert.Equal(t, uint64(0), report.ExploredNodes)
	if diff := cmp.Diff(heuristic.Bins, report.Bins); diff != "" {
		t.Errorf("bins differ from heuristic (-want +got):\n%s", diff)
	}
}

func TestImprover_StepClockTimesOut(t *testing.T) {
	req := makeImproverRequest()
	clock := NewStepClock(time.Millisecond)

	report, err := NewImprover(1, WithClock(clock)).Improve(context.Background(), req, 3)
	require.NoError(t, err)
	assert.Equal(t, model.TerminationTimedOut, report.Termination)
}

func TestImprover_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewImprover(1).Improve(ctx, makeImproverRequest(), 5000)
	require.NoError(t, err)
	assert.Equal(t, model.TerminationCancelled, report.Termination)
	assert.Equal(t, 14, report.CutCount())
}

func TestImprover_ValidationError(t *testing.T) {
	_, err := NewImprover(1).Improve(context.Background(), model.Request{Cuts: []float64{200}, StockLengths: []float64{96}}, 100)
	assert.ErrorIs(t, err, ErrCutTooLong)
}

func TestOrderCrossoverKeepsPermutation(t *testing.T) {
	n := normalized{cuts: make([]float64, 9), stocks: []float64{96}}
	ga := newGeneticOptimizer(DefaultGeneticConfig(), n, 11)

	for i := 0; i < 50; i++ {
		p1 := chromosome{order: ga.rng.Perm(9)}
		p2 := chromosome{order: ga.rng.Perm(9)}
		child := ga.orderCrossover(p1, p2)
		ga.mutate(&child)

		seen := make([]bool, 9)
		for _, idx := range child.order {
			require.False(t, seen[idx], "duplicate index %d in %v", idx, child.order)
			seen[idx] = true
		}
	}
}
