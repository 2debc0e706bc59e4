package engine

import "github.com/piwi3910/cutbuddy/internal/model"

// Summarize aggregates bins into reportable totals. Lengths are rounded to
// 3 decimals and utilization to 6. The bins slice is kept as given.
func Summarize(bins []model.Bin, kerf float64) model.Solution {
	var used, waste, stock, kerfLoss float64
	for _, b := range bins {
		used += b.Used
		if b.Remaining > 0 {
			waste += b.Remaining
		}
		stock += b.StockLength
		kerfLoss += b.KerfLoss(kerf)
	}

	utilization := 0.0
	if stock > 0 {
		utilization = used / stock
	}

	if bins == nil {
		bins = []model.Bin{}
	}
	return model.Solution{
		Bins:             bins,
		BinCount:         len(bins),
		TotalUsed:        model.Round(used, 3),
		TotalWaste:       model.Round(waste, 3),
		TotalStockLength: model.Round(stock, 3),
		TotalKerfLoss:    model.Round(kerfLoss, 3),
		Utilization:      model.Round(utilization, 6),
	}
}
