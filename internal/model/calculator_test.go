package model

import (
	"math"
	"testing"
)

func sampleSolution() Solution {
	return Solution{
		Bins: []Bin{
			{StockLength: 96, Cuts: []float64{40, 40}, Used: 80.125, Remaining: 15.875},
			{StockLength: 96, Cuts: []float64{40}, Used: 40, Remaining: 56},
			{StockLength: 144, Cuts: []float64{100}, Used: 100, Remaining: 44},
		},
		BinCount:         3,
		TotalStockLength: 336,
	}
}

func TestEstimateCost(t *testing.T) {
	stocks := []StockItem{
		{Length: 96, Price: 4.50},
		{Length: 144, Price: 7.25},
	}
	est := EstimateCost(sampleSolution(), stocks)

	if est.TotalPieces != 3 {
		t.Errorf("expected 3 pieces, got %d", est.TotalPieces)
	}
	if len(est.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(est.Lines))
	}
	if est.Lines[0].StockLength != 96 || est.Lines[0].Count != 2 {
		t.Errorf("unexpected first line: %+v", est.Lines[0])
	}
	if math.Abs(est.EstimatedCost-16.25) > 1e-9 {
		t.Errorf("expected cost 16.25, got %f", est.EstimatedCost)
	}
	if est.LinearLength != 336 {
		t.Errorf("expected linear length 336, got %f", est.LinearLength)
	}
	if est.LinearFeet != 28 {
		t.Errorf("expected 28 linear feet, got %f", est.LinearFeet)
	}
	if est.UnpricedPieces != 0 {
		t.Errorf("expected no unpriced pieces, got %d", est.UnpricedPieces)
	}
}

func TestEstimateCostUnpriced(t *testing.T) {
	est := EstimateCost(sampleSolution(), []StockItem{{Length: 96, Price: 4.50}})

	if est.UnpricedPieces != 1 {
		t.Errorf("expected 1 unpriced piece, got %d", est.UnpricedPieces)
	}
	if math.Abs(est.EstimatedCost-9.0) > 1e-9 {
		t.Errorf("expected cost 9.00, got %f", est.EstimatedCost)
	}
}

func TestEstimateCostEmpty(t *testing.T) {
	est := EstimateCost(Solution{}, nil)
	if est.TotalPieces != 0 || est.EstimatedCost != 0 {
		t.Errorf("expected empty estimate, got %+v", est)
	}
	if est.Lines == nil {
		t.Error("Lines should not be nil")
	}
}
