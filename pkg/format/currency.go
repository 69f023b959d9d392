// Package format renders amounts and ratios for reports.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount returns an amount rounded half away from zero to cents, with
// thousands separators and no currency symbol (e.g. "-1,234.56").
func Amount(value float64) string {
	rounded := decimal.NewFromFloat(value).Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + groupThousands(rounded.StringFixed(2))
}

// Cents rounds an amount to cents half away from zero, in decimal (1.005 gives 1.01).
func Cents(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// Whole returns an amount rounded to whole units with separators (e.g. "137,611").
func Whole(value float64) string {
	rounded := decimal.NewFromFloat(value).Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + groupThousands(rounded.StringFixed(0))
}

// Percent renders a fraction as a percentage with the given number of decimals
// (Percent(0.6453, 1) == "64.5%").
func Percent(fraction float64, places int32) string {
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(places) + "%"
}

func groupThousands(fixed string) string {
	intPart, decPart, hasDecimals := strings.Cut(fixed, ".")
	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}
	if !hasDecimals {
		return intPart
	}
	return intPart + "." + decPart
}
