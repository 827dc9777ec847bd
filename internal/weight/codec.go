// Package weight converts angling weights between total ounces and the
// "X lb Y oz" form shown on leaderboards.
package weight

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// OuncesPerPound is the imperial conversion factor
const OuncesPerPound = 16

// Zero is the display form of an empty or unreadable weight
const Zero = "0 lb 0 oz"

// MaxOunces is the largest weight the codec represents. Parse refuses
// anything heavier and the other conversions saturate at it.
const MaxOunces = math.MaxInt32

var (
	// ErrUnparseable is returned by Parse for input that holds no weight
	ErrUnparseable = errors.New("unparseable weight")

	displayPattern = regexp.MustCompile(`(?i)(\d+)\s*lb\s*(\d+)\s*oz`)
	numericPrefix  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Breakdown is a weight split into whole pounds and remaining ounces
type Breakdown struct {
	Pounds      int `json:"pounds"`
	Ounces      int `json:"ounces"`
	TotalOunces int `json:"totalOunces"`
}

// String renders the breakdown in display form
func (b Breakdown) String() string {
	return Format(b.TotalOunces)
}

// ToOunces combines pounds and ounces into total ounces. Ounce values of 16
// or more are carried into pounds first; negative parts count as zero and
// totals above MaxOunces saturate.
func ToOunces(pounds, ounces int) int {
	total, _ := combine(pounds, ounces)
	return total
}

// combine is ToOunces that also reports whether the total fit under MaxOunces
func combine(pounds, ounces int) (int, bool) {
	if pounds < 0 {
		pounds = 0
	}
	if ounces < 0 {
		ounces = 0
	}
	pounds += ounces / OuncesPerPound
	ounces %= OuncesPerPound
	if pounds > (MaxOunces-ounces)/OuncesPerPound {
		return MaxOunces, false
	}
	return pounds*OuncesPerPound + ounces, true
}

// FromOunces splits a total into pounds and ounces
func FromOunces(total int) Breakdown {
	if total < 0 {
		total = 0
	}
	return Breakdown{
		Pounds:      total / OuncesPerPound,
		Ounces:      total % OuncesPerPound,
		TotalOunces: total,
	}
}

// Format renders total ounces as "<p> lb <o> oz". Zero and negative totals
// render as Zero.
func Format(total int) string {
	if total <= 0 {
		return Zero
	}
	b := FromOunces(total)
	return fmt.Sprintf("%d lb %d oz", b.Pounds, b.Ounces)
}

// FormatFloat rounds v to the nearest ounce and formats it
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Zero
	}
	return Format(roundOunces(v))
}

// FormatValue formats a stored weight value. Values already containing
// "lb" are returned unchanged; numeric strings are treated as ounces.
func FormatValue(raw string) string {
	if strings.Contains(raw, "lb") {
		return raw
	}

	v, ok := parseFloatPrefix(raw)
	if !ok {
		return Zero
	}
	return FormatFloat(v)
}

// Parse reads a display string such as "12 lb 3 oz" into total ounces.
// Anything else is read as a plain ounce count, using the leading numeric
// part of the string the way browsers parse numbers. Input with neither
// form, a negative count, or a total above MaxOunces returns ErrUnparseable.
func Parse(display string) (int, error) {
	if m := displayPattern.FindStringSubmatch(display); m != nil {
		pounds, perr := strconv.Atoi(m[1])
		ounces, oerr := strconv.Atoi(m[2])
		if perr == nil && oerr == nil {
			total, ok := combine(pounds, ounces)
			if !ok {
				return 0, fmt.Errorf("%w: %q exceeds the maximum weight", ErrUnparseable, display)
			}
			return total, nil
		}
	}

	v, ok := parseFloatPrefix(display)
	if !ok || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, display)
	}
	if v >= MaxOunces+0.5 {
		return 0, fmt.Errorf("%w: %q exceeds the maximum weight", ErrUnparseable, display)
	}
	return roundOunces(v), nil
}

// ParseOrZero is Parse for display paths: unreadable input yields 0
func ParseOrZero(display string) int {
	total, err := Parse(display)
	if err != nil {
		return 0
	}
	return total
}

// Sum totals a mix of ounce counts and display strings. Strings are read
// with ParseOrZero, floats are rounded, and unsupported or negative values
// contribute nothing. The total saturates at MaxOunces.
func Sum(values ...any) int {
	total := 0
	for _, v := range values {
		total += ounces(v)
		if total > MaxOunces {
			return MaxOunces
		}
	}
	return total
}

func ounces(v any) int {
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int32:
		n = int(val)
	case int64:
		n = int(val)
	case float32:
		n = roundOunces(float64(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		n = roundOunces(val)
	case string:
		n = ParseOrZero(val)
	case json.Number:
		n = ParseOrZero(val.String())
	case Breakdown:
		n = val.TotalOunces
	default:
		return 0
	}
	switch {
	case n < 0:
		return 0
	case n > MaxOunces:
		return MaxOunces
	}
	return n
}

// roundOunces rounds half up, matching how the leaderboard has always
// rounded, and clamps the result to [0, MaxOunces].
func roundOunces(v float64) int {
	r := math.Floor(v + 0.5)
	switch {
	case r <= 0:
		return 0
	case r >= MaxOunces:
		return MaxOunces
	}
	return int(r)
}

func parseFloatPrefix(raw string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
