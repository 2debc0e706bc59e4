package measure

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var smallNumbers = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensNumbers = map[string]float64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var (
	feetWords   = set("foot", "feet", "ft")
	inchWords   = set("inch", "inches", "in")
	cmWords     = set("cm", "centimeter", "centimeters")
	mmWords     = set("mm", "millimeter", "millimeters")
	meterWords  = set("m", "meter", "meters")
	fillerWords = set("and", "a", "an")
)

// Spelled-out fractions are ambiguous when dictated, so they reject the phrase.
var fractionWords = set(
	"halves", "third", "thirds", "fourth", "fourths", "fifth", "fifths",
	"sixth", "sixths", "seventh", "sevenths", "eighth", "eighths",
	"ninth", "ninths", "tenth", "tenths", "eleventh", "elevenths",
	"twelfth", "twelfths", "thirteenth", "thirteenths", "fourteenth", "fourteenths",
	"fifteenth", "fifteenths", "sixteenth", "sixteenths", "seventeenth", "seventeenths",
	"eighteenth", "eighteenths", "nineteenth", "nineteenths", "twentieth", "twentieths",
	"thirtieth", "thirtieths", "thirtysecond", "thirtyseconds", "sixtyfourth", "sixtyfourths",
)

var (
	feetMark    = regexp.MustCompile(`(\d)\s*'\s*`)
	inchMark    = regexp.MustCompile(`(\d)\s*"\s*`)
	nonWord     = regexp.MustCompile(`[^\w./\s]`)
	fraction    = regexp.MustCompile(`^(\d+)/(\d+)$`)
	numeric     = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)$`)
	suffixedNum = regexp.MustCompile(`^\d+[a-z]+$`)
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Measurement is a parsed length phrase.
type Measurement struct {
	Raw         string  `json:"raw"`
	TotalInches float64 `json:"totalInches"`
}

func tokenize(text string) []string {
	text = feetMark.ReplaceAllString(text, "$1 feet ")
	text = inchMark.ReplaceAllString(text, "$1 inches ")
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "-", " ")
	text = nonWord.ReplaceAllString(text, " ")
	return strings.Fields(text)
}

func parseFraction(token string) (float64, bool) {
	m := fraction.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(m[1], 64)
	den, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

func parseNumeric(token string) (float64, bool) {
	if !numeric.MatchString(token) {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func unsupportedFraction(token string) bool {
	return suffixedNum.MatchString(token) || fractionWords[token]
}

type amountResult int

const (
	amountNone amountResult = iota
	amountOK
	amountInvalid
)

// readAmount sums consecutive number tokens starting at start.
func readAmount(tokens []string, start int) (float64, int, amountResult) {
	i := start
	found := false
	current := 0.0

	for i < len(tokens) {
		tok := tokens[i]
		if v, ok := parseFraction(tok); ok {
			current += v
			found = true
			i++
			continue
		}
		if strings.Contains(tok, "/") {
			return 0, i, amountInvalid
		}
		if v, ok := parseNumeric(tok); ok {
			current += v
			found = true
			i++
			continue
		}
		if v, ok := smallNumbers[tok]; ok {
			current += v
			found = true
			i++
			continue
		}
		if v, ok := tensNumbers[tok]; ok {
			current += v
			found = true
			i++
			continue
		}
		switch tok {
		case "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
			found = true
			i++
			continue
		case "half":
			current += 0.5
			found = true
			i++
			continue
		case "quarter":
			current += 0.25
			found = true
			i++
			continue
		}
		if unsupportedFraction(tok) {
			return 0, i, amountInvalid
		}
		if fillerWords[tok] {
			i++
			continue
		}
		break
	}

	if !found {
		return 0, i, amountNone
	}
	return current, i, amountOK
}

// Parse reads a spoken or typed length such as `8' 6"`, "3 and a half feet",
// "12 13/64 inches" or "2.5 m". Amounts without a unit word use def. The
// phrase fails if it contains an unsupported fraction form or totals <= 0.
func Parse(phrase string, def Unit) (Measurement, bool) {
	tokens := tokenize(phrase)
	if len(tokens) == 0 {
		return Measurement{}, false
	}

	var feet, inches float64
	cursor := 0
	for cursor < len(tokens) {
		value, next, res := readAmount(tokens, cursor)
		switch res {
		case amountInvalid:
			return Measurement{}, false
		case amountNone:
			if unsupportedFraction(tokens[cursor]) {
				return Measurement{}, false
			}
			cursor++
			continue
		}

		cursor = next
		unit := ""
		if cursor < len(tokens) {
			unit = tokens[cursor]
		}
		switch {
		case feetWords[unit]:
			feet += value
		case inchWords[unit]:
			inches += value
		case cmWords[unit]:
			inches += value / 2.54
		case mmWords[unit]:
			inches += value / 25.4
		case meterWords[unit]:
			inches += value * 100 / 2.54
		default:
			inches += def.ToInches(value)
			continue
		}
		cursor++
	}

	total := feet*12 + inches
	if total <= 0 {
		return Measurement{}, false
	}
	return Measurement{Raw: strings.TrimSpace(phrase), TotalInches: total}, true
}

// ParseList parses a comma separated list of lengths, dropping segments that
// do not parse, and returns inches sorted ascending.
func ParseList(text string, def Unit) []float64 {
	out := []float64{}
	for _, seg := range strings.Split(text, ",") {
		if m, ok := Parse(strings.TrimSpace(seg), def); ok {
			out = append(out, m.TotalInches)
		}
	}
	sort.Float64s(out)
	return out
}
