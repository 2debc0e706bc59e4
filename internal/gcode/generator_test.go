package gcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// newTestSettings returns Settings suitable for testing with predictable output.
func newTestSettings(profile string) model.Settings {
	s := model.DefaultSettings()
	s.Kerf = 0.125
	s.GCodeProfile = profile
	return s
}

func newTestBin() model.Bin {
	return model.Bin{StockLength: 96, Cuts: []float64{60, 30}, Used: 90.125, Remaining: 5.875}
}

func newTestSolution() model.Solution {
	return model.Solution{
		Bins: []model.Bin{
			newTestBin(),
			{StockLength: 144, Cuts: []float64{100}, Used: 100, Remaining: 44},
		},
		BinCount: 2,
	}
}

func TestPositions_IncludeKerf(t *testing.T) {
	gen := New(newTestSettings("Generic"))
	assert.Equal(t, []float64{60, 90.125}, gen.Positions(newTestBin()))
}

func TestPositions_ZeroKerf(t *testing.T) {
	s := newTestSettings("Generic")
	s.Kerf = 0
	gen := New(s)
	assert.Equal(t, []float64{60, 90}, gen.Positions(newTestBin()))
}

func TestGenerateBin_Generic(t *testing.T) {
	gen := New(newTestSettings("Generic"))
	code := gen.GenerateBin(newTestBin(), 1)

	assert.True(t, strings.HasPrefix(code, "; CutBuddy saw program: Bin 1"))
	assert.Contains(t, code, "G90\nG20\n")
	assert.Contains(t, code, "G0 X60.000\nM3\nM5\n")
	assert.Contains(t, code, "G0 X90.125\nM3\nM5\n")
	assert.Contains(t, code, "; Remaining: 5.875 inches")
	assert.True(t, strings.HasSuffix(code, "G0 X0\nM2\n"))
	assert.Equal(t, 1, strings.Count(code, "M0\n"))
}

func TestGenerateBin_Mach3Comments(t *testing.T) {
	gen := New(newTestSettings("Mach3"))
	code := gen.GenerateBin(newTestBin(), 3)

	assert.Contains(t, code, "( CutBuddy saw program: Bin 3)")
	assert.Contains(t, code, "G0 X60.0000\nM101\n")
	assert.NotContains(t, code, ";")
}

func TestGenerateBin_MetricProfile(t *testing.T) {
	gen := New(newTestSettings("LinuxCNC"))
	code := gen.GenerateBin(newTestBin(), 1)

	assert.Contains(t, code, "G21")
	assert.Contains(t, code, "G0 X1524.000\n")

	groups := StopPositions(code, gen.Profile())
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 2)
	assert.InDelta(t, 90.125*25.4, groups[0][1], 1e-3)
}

func TestGenerateBin_UnknownProfileFallsBack(t *testing.T) {
	gen := New(newTestSettings("NoSuchController"))
	assert.Equal(t, "Generic", gen.Profile().Name)
}

func TestGenerateAll(t *testing.T) {
	gen := New(newTestSettings("Grbl"))
	codes := gen.GenerateAll(newTestSolution())

	require.Len(t, codes, 2)
	assert.Contains(t, codes[1], "Bin 2")
	assert.Contains(t, codes[1], "G0 X100.0000\n")
}

func TestGenerateProgram_RoundTrip(t *testing.T) {
	for _, name := range []string{"Grbl", "Mach3", "Generic"} {
		t.Run(name, func(t *testing.T) {
			gen := New(newTestSettings(name))
			sol := newTestSolution()
			code := gen.GenerateProgram(sol)

			groups := StopPositions(code, gen.Profile())
			require.Len(t, groups, len(sol.Bins))
			for i, bin := range sol.Bins {
				assert.InDeltaSlice(t, gen.Positions(bin), groups[i], 1e-6, "bin %d", i+1)
			}
		})
	}
}

func TestGenerateProgram_Empty(t *testing.T) {
	gen := New(newTestSettings("Generic"))
	code := gen.GenerateProgram(model.Solution{})

	assert.Contains(t, code, "Bars: 0, Cuts: 0")
	assert.Empty(t, StopPositions(code, gen.Profile()))
}

func TestCustomProfile(t *testing.T) {
	p := model.NewCustomProfile("Pusher")
	p.Axis = "Y"
	p.CutCycle = "M8"
	require.NoError(t, model.AddCustomProfile(p))
	defer func() { _ = model.RemoveCustomProfile("Pusher") }()

	gen := New(newTestSettings("Pusher"))
	code := gen.GenerateBin(newTestBin(), 1)

	assert.Contains(t, code, "G0 Y60.000\nM8\n")
	groups := StopPositions(code, gen.Profile())
	require.Len(t, groups, 1)
	assert.Equal(t, []float64{60, 90.125}, groups[0])
}

func TestNewWithProfile_UnregisteredProfile(t *testing.T) {
	p := model.NewCustomProfile("Draft")
	p.CutCycle = "M7"

	gen := NewWithProfile(newTestSettings("Generic"), p)
	assert.Equal(t, "Draft", gen.Settings.GCodeProfile)

	code := gen.GenerateBin(newTestBin(), 1)
	assert.Contains(t, code, "G0 X60.000\nM7\n")
	assert.Equal(t, []float64{60, 90.125}, StopPositions(code, p)[0])
}
