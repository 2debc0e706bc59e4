package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestNormalize_FiltersSortsAndDedups(t *testing.T) {
	n, err := normalize(model.Request{
		Cuts:         []float64{24, -3, 52, math.NaN(), 0, 36, math.Inf(1)},
		StockLengths: []float64{120, 96, 96 + 1e-12, -1, math.Inf(1), 144},
		Kerf:         0.125,
		TimeBudgetMs: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{52, 36, 24}, n.cuts)
	assert.Equal(t, []float64{96, 120, 144}, n.stocks)
	assert.Equal(t, 144.0, n.maxStock())
	assert.Equal(t, int64(100), n.budgetMs)
}

func TestNormalize_NoStock(t *testing.T) {
	_, err := normalize(model.Request{Cuts: []float64{10}, StockLengths: []float64{0, -5, math.NaN()}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoStock))
	assert.True(t, IsValidation(err))
	assert.Equal(t, "No valid stock lengths available for exact optimization.", err.Error())
}

func TestNormalize_StockCheckedBeforeEmptyCuts(t *testing.T) {
	_, err := normalize(model.Request{})
	assert.ErrorIs(t, err, ErrNoStock)
}

func TestNormalize_EmptyCutsAllowed(t *testing.T) {
	n, err := normalize(model.Request{Cuts: []float64{-1}, StockLengths: []float64{96}})
	require.NoError(t, err)
	assert.Empty(t, n.cuts)
}

func TestNormalize_CutTooLong(t *testing.T) {
	_, err := normalize(model.Request{Cuts: []float64{40, 130}, StockLengths: []float64{96, 120}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCutTooLong)
	assert.Equal(t, "Cut 130.000 in exceeds all configured stock lengths.", err.Error())
}

func TestNormalize_CutWithinEpsilonOfStockFits(t *testing.T) {
	_, err := normalize(model.Request{Cuts: []float64{96 + 1e-10}, StockLengths: []float64{96}})
	assert.NoError(t, err)
}

func TestNormalize_RejectsBadKerfAndBudget(t *testing.T) {
	base := model.Request{Cuts: []float64{10}, StockLengths: []float64{96}}

	bad := base
	bad.Kerf = -0.1
	_, err := normalize(bad)
	assert.ErrorIs(t, err, ErrInvalidKerf)

	bad = base
	bad.Kerf = math.NaN()
	_, err = normalize(bad)
	assert.ErrorIs(t, err, ErrInvalidKerf)

	bad = base
	bad.TimeBudgetMs = -1
	_, err = normalize(bad)
	assert.ErrorIs(t, err, ErrInvalidBudget)
	assert.True(t, IsValidation(err))
}
