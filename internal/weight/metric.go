package weight

import (
	"github.com/shopspring/decimal"
)

// kilogramsPerOunce is the exact avoirdupois ounce in kilograms
var kilogramsPerOunce = decimal.RequireFromString("0.028349523125")

// ToKilograms converts total ounces to kilograms, rounded to the gram
func ToKilograms(total int) decimal.Decimal {
	if total < 0 {
		total = 0
	}
	return decimal.NewFromInt(int64(total)).Mul(kilogramsPerOunce).Round(3)
}

// FormatMetric renders total ounces as kilograms, e.g. "1.247 kg"
func FormatMetric(total int) string {
	return ToKilograms(total).StringFixed(3) + " kg"
}
