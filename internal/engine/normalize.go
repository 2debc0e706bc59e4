package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// normalized is a validated request: stock ascending and deduplicated,
// cuts sorted longest first.
type normalized struct {
	cuts     []float64
	stocks   []float64
	kerf     float64
	budgetMs int64
}

func (n normalized) maxStock() float64 {
	return n.stocks[len(n.stocks)-1]
}

func positiveFinite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// normalizeStocks filters, sorts ascending and removes lengths within
// Epsilon of their predecessor.
func normalizeStocks(raw []float64) []float64 {
	stocks := positiveFinite(raw)
	sort.Float64s(stocks)
	out := stocks[:0]
	for _, s := range stocks {
		if len(out) > 0 && math.Abs(s-out[len(out)-1]) <= model.Epsilon {
			continue
		}
		out = append(out, s)
	}
	return out
}

func normalizeCuts(raw []float64) []float64 {
	cuts := positiveFinite(raw)
	sort.Sort(sort.Reverse(sort.Float64Slice(cuts)))
	return cuts
}

// normalize validates a request. An empty cut list is valid; the caller
// short-circuits it before the too-long check would matter.
func normalize(req model.Request) (normalized, error) {
	if math.IsNaN(req.Kerf) || math.IsInf(req.Kerf, 0) || req.Kerf < 0 {
		return normalized{}, &ValidationError{Msg: ErrInvalidKerf.Error(), Err: ErrInvalidKerf}
	}
	if req.TimeBudgetMs < 0 {
		return normalized{}, &ValidationError{Msg: ErrInvalidBudget.Error(), Err: ErrInvalidBudget}
	}

	n := normalized{
		stocks:   normalizeStocks(req.StockLengths),
		cuts:     normalizeCuts(req.Cuts),
		kerf:     req.Kerf,
		budgetMs: req.TimeBudgetMs,
	}
	if len(n.stocks) == 0 {
		return normalized{}, errNoStock()
	}
	if len(n.cuts) == 0 {
		return n, nil
	}

	// Cuts are descending, so the first one is the longest.
	if n.cuts[0]-n.maxStock() > model.Epsilon {
		return normalized{}, errCutTooLong(n.cuts[0])
	}
	return n, nil
}
