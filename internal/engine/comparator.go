package engine

import "github.com/piwi3910/cutbuddy/internal/model"

// Compare orders two solutions: lower objective first, then lower waste,
// then fewer bins. Float keys compare within Epsilon. It returns -1, 0 or 1.
func Compare(a, b model.Solution, kerf float64) int {
	ao, bo := a.Objective(kerf), b.Objective(kerf)
	if ao < bo-model.Epsilon {
		return -1
	}
	if ao > bo+model.Epsilon {
		return 1
	}

	if a.TotalWaste < b.TotalWaste-model.Epsilon {
		return -1
	}
	if a.TotalWaste > b.TotalWaste+model.Epsilon {
		return 1
	}

	switch {
	case a.BinCount < b.BinCount:
		return -1
	case a.BinCount > b.BinCount:
		return 1
	}
	return 0
}

// Better reports whether a is strictly better than b.
func Better(a, b model.Solution, kerf float64) bool {
	return Compare(a, b, kerf) < 0
}
