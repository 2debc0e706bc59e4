package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a reusable remnant left at the end of a bin after cutting.
type Offcut struct {
	ID          string  `json:"id"`
	BinIndex    int     `json:"bin_index"`    // Index of the source bin in the solution
	StockLength float64 `json:"stock_length"` // Length of the bar it came from
	Length      float64 `json:"length"`       // Usable length after the trailing kerf
	Price       float64 `json:"price"`        // Inherited price proportional to length
}

// ToStockItem converts an offcut into a stock item for reuse in future projects.
func (o Offcut) ToStockItem() StockItem {
	item := NewStockItem("Offcut", o.Length)
	item.Price = o.Price
	return item
}

// DetectOffcuts returns remnants at least minLength long. One more kerf is
// charged to separate the remnant from the last cut. Results are sorted
// longest first.
func DetectOffcuts(sol Solution, kerf, minLength float64, stocks []StockItem) []Offcut {
	var offcuts []Offcut
	for i, b := range sol.Bins {
		usable := b.Remaining
		if len(b.Cuts) > 0 {
			usable -= kerf
		}
		if usable < minLength || usable <= Epsilon {
			continue
		}
		o := Offcut{
			ID:          uuid.New().String()[:8],
			BinIndex:    i,
			StockLength: b.StockLength,
			Length:      Round(usable, 6),
		}
		if price, ok := priceFor(b.StockLength, stocks); ok && b.StockLength > 0 {
			o.Price = Round(price*usable/b.StockLength, 2)
		}
		offcuts = append(offcuts, o)
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// TotalOffcutLength returns the combined length of all offcuts.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
