package measure

import (
	"fmt"
	"strings"
)

// Unit is the default unit for bare amounts and for display.
type Unit string

const (
	Inches      Unit = "inches"
	Feet        Unit = "feet"
	Centimeters Unit = "cm"
	Millimeters Unit = "mm"
)

// Units lists the supported units in display order.
var Units = []Unit{Inches, Feet, Centimeters, Millimeters}

// Label returns the long display name of the unit.
func (u Unit) Label() string {
	switch u {
	case Feet:
		return "feet"
	case Centimeters:
		return "centimeters"
	case Millimeters:
		return "millimeters"
	}
	return "inches"
}

// Short returns the abbreviated unit suffix.
func (u Unit) Short() string {
	switch u {
	case Feet:
		return "ft"
	case Centimeters:
		return "cm"
	case Millimeters:
		return "mm"
	}
	return "in"
}

// ParseUnit accepts long names and abbreviations.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "in", "inch", "inches", "\"":
		return Inches, nil
	case "ft", "foot", "feet", "'":
		return Feet, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	case "mm", "millimeter", "millimeters":
		return Millimeters, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// ToInches converts an amount in u into inches.
func (u Unit) ToInches(v float64) float64 {
	switch u {
	case Feet:
		return v * 12
	case Centimeters:
		return v / 2.54
	case Millimeters:
		return v / 25.4
	}
	return v
}

// FromInches converts inches into u.
func (u Unit) FromInches(v float64) float64 {
	switch u {
	case Feet:
		return v / 12
	case Centimeters:
		return v * 2.54
	case Millimeters:
		return v * 25.4
	}
	return v
}

// IsMetric reports whether u is a metric unit.
func (u Unit) IsMetric() bool {
	return u == Centimeters || u == Millimeters
}

var metricStockMM = []float64{2400, 3000, 3600}

// DefaultStockPresets returns the starting stock lengths in inches for a unit.
func DefaultStockPresets(u Unit) []float64 {
	if u.IsMetric() {
		out := make([]float64, len(metricStockMM))
		for i, mm := range metricStockMM {
			out[i] = mm / 25.4
		}
		return out
	}
	return []float64{96, 144, 192}
}
