package model

import (
	"math"
	"sort"
)

// StockLine is the purchase quantity for one stock length.
type StockLine struct {
	StockLength float64 `json:"stock_length"`
	Count       int     `json:"count"`
	UnitPrice   float64 `json:"unit_price"`
	Cost        float64 `json:"cost"`
}

// CostEstimate holds the purchasing summary for a solved cut plan.
type CostEstimate struct {
	Lines          []StockLine `json:"lines"`
	TotalPieces    int         `json:"total_pieces"`
	LinearLength   float64     `json:"linear_length"`   // Total stock length purchased
	LinearFeet     float64     `json:"linear_feet"`     // Same, in feet (lengths are inches)
	EstimatedCost  float64     `json:"estimated_cost"`  // Sum of priced lines
	UnpricedPieces int         `json:"unpriced_pieces"` // Pieces with no known price
}

// EstimateCost counts stock pieces per length in a solution and prices them.
// Prices are matched to stock lengths within Epsilon.
func EstimateCost(sol Solution, stocks []StockItem) CostEstimate {
	counts := make(map[float64]int)
	var order []float64
	for _, b := range sol.Bins {
		if _, ok := counts[b.StockLength]; !ok {
			order = append(order, b.StockLength)
		}
		counts[b.StockLength]++
	}
	sort.Float64s(order)

	est := CostEstimate{Lines: []StockLine{}}
	for _, length := range order {
		line := StockLine{StockLength: length, Count: counts[length]}
		if price, ok := priceFor(length, stocks); ok {
			line.UnitPrice = price
			line.Cost = price * float64(line.Count)
			est.EstimatedCost += line.Cost
		} else {
			est.UnpricedPieces += line.Count
		}
		est.TotalPieces += line.Count
		est.LinearLength += length * float64(line.Count)
		est.Lines = append(est.Lines, line)
	}
	est.LinearLength = Round(est.LinearLength, 3)
	est.LinearFeet = Round(est.LinearLength/12.0, 3)
	est.EstimatedCost = Round(est.EstimatedCost, 2)
	return est
}

func priceFor(length float64, stocks []StockItem) (float64, bool) {
	for _, s := range stocks {
		if math.Abs(s.Length-length) <= Epsilon && s.Price > 0 {
			return s.Price, true
		}
	}
	return 0, false
}
