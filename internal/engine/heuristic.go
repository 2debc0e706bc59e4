package engine

import "github.com/piwi3910/cutbuddy/internal/model"

// packBestFit places cuts in the given order. Each cut goes where it leaves
// the smallest remainder. Open bins are scanned before stock lengths and
// only a strictly smaller remainder replaces the current choice, so ties
// reuse an existing bin. stocks must be sorted ascending.
func packBestFit(cuts, stocks []float64, kerf float64) ([]model.Bin, error) {
	bins := make([]model.Bin, 0)

	for _, cut := range cuts {
		found := false
		existing := -1
		bestRem := 0.0
		extra := 0.0

		for i := range bins {
			k := 0.0
			if len(bins[i].Cuts) > 0 {
				k = kerf
			}
			rem := bins[i].Remaining - cut - k
			if rem < -model.Epsilon {
				continue
			}
			if !found || rem < bestRem {
				found, existing, bestRem, extra = true, i, rem, k
			}
		}

		for _, stock := range stocks {
			rem := stock - cut
			if rem < -model.Epsilon {
				continue
			}
			if !found || rem < bestRem {
				found, existing, bestRem, extra = true, -1, rem, 0
			}
		}

		if !found {
			return nil, errCutTooLong(cut)
		}

		if existing >= 0 {
			b := &bins[existing]
			b.Cuts = append(b.Cuts, cut)
			b.Used += cut + extra
			b.Remaining = model.Round(b.StockLength-b.Used, 6)
			continue
		}

		stock, ok := smallestFitting(stocks, cut)
		if !ok {
			return nil, errInternalf("no valid stock length found for cut %.3f", cut)
		}
		bins = append(bins, model.NewBin(stock, cut))
	}

	return bins, nil
}

func smallestFitting(stocks []float64, cut float64) (float64, bool) {
	for _, s := range stocks {
		if s-cut >= -model.Epsilon {
			return s, true
		}
	}
	return 0, false
}

// Heuristic runs best-fit decreasing on raw input and returns its summary.
func Heuristic(cuts, stocks []float64, kerf float64) (model.Solution, error) {
	sc := normalizeStocks(stocks)
	if len(sc) == 0 {
		return model.Solution{}, errNoStock()
	}
	bins, err := packBestFit(normalizeCuts(cuts), sc, kerf)
	if err != nil {
		return model.Solution{}, err
	}
	return Summarize(bins, kerf), nil
}
