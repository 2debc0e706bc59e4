package measure

import (
	"fmt"
	"math"
	"strconv"
)

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// MixedFraction renders v as a whole number plus the closest fraction with a
// denominator up to maxDen, reduced. "12 13/64", "3/8", "-2 1/2".
func MixedFraction(v float64, maxDen int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	negative := v < 0
	abs := math.Abs(v)
	whole := int(math.Floor(abs))
	frac := abs - float64(whole)

	bestNum, bestDen := 0, 1
	bestErr := math.Inf(1)
	for den := 1; den <= maxDen; den++ {
		num := int(math.Round(frac * float64(den)))
		if e := math.Abs(frac - float64(num)/float64(den)); e < bestErr {
			bestErr, bestNum, bestDen = e, num, den
		}
	}

	if bestNum == bestDen {
		whole++
		bestNum = 0
	}
	if bestNum > 0 {
		d := gcd(bestNum, bestDen)
		bestNum /= d
		bestDen /= d
	}

	sign := ""
	if negative && (whole != 0 || bestNum != 0) {
		sign = "-"
	}
	switch {
	case bestNum == 0:
		return fmt.Sprintf("%s%d", sign, whole)
	case whole == 0:
		return fmt.Sprintf("%s%d/%d", sign, bestNum, bestDen)
	}
	return fmt.Sprintf("%s%d %d/%d", sign, whole, bestNum, bestDen)
}

func trimmed(v float64, digits int) string {
	factor := math.Pow(10, float64(digits))
	return strconv.FormatFloat(math.Round(v*factor)/factor, 'f', -1, 64)
}

// Value formats a length in inches as a number in unit u, without a suffix.
func Value(inches float64, u Unit) string {
	if math.IsNaN(inches) || math.IsInf(inches, 0) {
		return "0"
	}
	switch u {
	case Feet:
		return MixedFraction(inches/12, 64)
	case Centimeters:
		return trimmed(inches*2.54, 4)
	case Millimeters:
		return trimmed(inches*25.4, 3)
	}
	return MixedFraction(inches, 64)
}

// Format renders a length in inches in unit u with its short suffix.
func Format(inches float64, u Unit) string {
	return Value(inches, u) + " " + u.Short()
}
