package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestCompare(t *testing.T) {
	kerf := 0.125
	tests := []struct {
		name string
		a, b model.Solution
		want int
	}{
		{
			name: "lower stock length wins",
			a:    model.Solution{TotalStockLength: 216, BinCount: 2, TotalWaste: 60},
			b:    model.Solution{TotalStockLength: 288, BinCount: 3, TotalWaste: 10},
			want: -1,
		},
		{
			name: "kerf surcharge breaks equal stock",
			a:    model.Solution{TotalStockLength: 240, BinCount: 3},
			b:    model.Solution{TotalStockLength: 240, BinCount: 2},
			want: 1,
		},
		{
			name: "waste breaks equal objective",
			a:    model.Solution{TotalStockLength: 240, BinCount: 2, TotalWaste: 5},
			b:    model.Solution{TotalStockLength: 240, BinCount: 2, TotalWaste: 6},
			want: -1,
		},
		{
			name: "jitter within epsilon is a tie",
			a:    model.Solution{TotalStockLength: 240 + 1e-12, BinCount: 2, TotalWaste: 5},
			b:    model.Solution{TotalStockLength: 240, BinCount: 2, TotalWaste: 5 - 1e-12},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b, kerf))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a, kerf))
			assert.Equal(t, tt.want < 0, Better(tt.a, tt.b, kerf))
		})
	}
}

func TestCompare_ZeroKerfFallsThroughToBinCount(t *testing.T) {
	a := model.Solution{TotalStockLength: 192, BinCount: 1, TotalWaste: 0}
	b := model.Solution{TotalStockLength: 192, BinCount: 2, TotalWaste: 0}
	assert.Equal(t, -1, Compare(a, b, 0))
}
