package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		phrase string
		def    Unit
		want   float64
	}{
		{"3 and a half feet", Inches, 42},
		{"3/16 in", Inches, 0.1875},
		{"2.5 m", Inches, 250 / 2.54},
		{"8", Feet, 96},
		{"12 13/64 inches", Inches, 12 + 13.0/64},
		{`8' 6"`, Inches, 102},
		{"5'", Inches, 60},
		{"twenty four inches", Inches, 24},
		{"thirty-six", Inches, 36},
		{"one hundred twenty", Inches, 120},
		{"two hundred", Millimeters, 200 / 25.4},
		{"a quarter inch", Inches, 0.25},
		{"10 cm", Inches, 10 / 2.54},
		{"610 mm", Feet, 610 / 25.4},
		{"six feet two", Inches, 74},
		{"45", Centimeters, 45 / 2.54},
		{"cut 48 inches please", Inches, 48},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			m, ok := Parse(tt.phrase, tt.def)
			require.True(t, ok, "expected %q to parse", tt.phrase)
			assert.InDelta(t, tt.want, m.TotalInches, 1e-9)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, phrase := range []string{
		"12 13/64ths inches",
		"13 64ths inches",
		"64ths",
		"three sixteenths",
		"13/0 in",
		"",
		"   ",
		"nothing here",
		"0 inches",
	} {
		t.Run(phrase, func(t *testing.T) {
			_, ok := Parse(phrase, Inches)
			assert.False(t, ok, "expected %q to be rejected", phrase)
		})
	}
}

func TestParse_KeepsRaw(t *testing.T) {
	m, ok := Parse("  8 ft  ", Inches)
	require.True(t, ok)
	assert.Equal(t, "8 ft", m.Raw)
}

func TestParseList(t *testing.T) {
	got := ParseList("12 ft, noise, 8 ft", Inches)
	assert.Equal(t, []float64{96, 144}, got)

	assert.Empty(t, ParseList("", Inches))
	assert.NotNil(t, ParseList("junk", Inches))
}

func TestMixedFraction(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{96, "96"},
		{12.203125, "12 13/64"},
		{0.375, "3/8"},
		{47.875, "47 7/8"},
		{-2.5, "-2 1/2"},
		{-0.25, "-1/4"},
		{5.9999, "6"},
		{0.001, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MixedFraction(tt.v, 64), "MixedFraction(%v)", tt.v)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "96 in", Format(96, Inches))
	assert.Equal(t, "8 ft", Format(96, Feet))
	assert.Equal(t, "8 1/2 ft", Format(102, Feet))
	assert.Equal(t, "243.84 cm", Format(96, Centimeters))
	assert.Equal(t, "2438.4 mm", Format(96, Millimeters))
	assert.Equal(t, "0.3175", Value(0.125, Centimeters))
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{
		"in": Inches, "Inches": Inches, "": Inches,
		"ft": Feet, "FEET": Feet,
		"cm": Centimeters, "millimeters": Millimeters,
	} {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseUnit("furlong")
	assert.Error(t, err)
}

func TestUnitConversionsRoundTrip(t *testing.T) {
	for _, u := range Units {
		assert.InDelta(t, 37.5, u.ToInches(u.FromInches(37.5)), 1e-9, string(u))
	}
}

func TestDefaultStockPresets(t *testing.T) {
	assert.Equal(t, []float64{96, 144, 192}, DefaultStockPresets(Inches))
	assert.Equal(t, []float64{96, 144, 192}, DefaultStockPresets(Feet))

	metric := DefaultStockPresets(Millimeters)
	require.Len(t, metric, 3)
	assert.InDelta(t, 2400/25.4, metric[0], 1e-9)
	assert.InDelta(t, 3600/25.4, metric[2], 1e-9)
}
