// Package format renders money and ratios for display.
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown for values that cannot be rendered, such as the
// margin of a deal with no sale price.
const NotAvailable = "n/a"

// Currency returns whole dollars with a dollar sign and thousands
// separators (e.g., "-$1,235"). Halves round away from zero.
func Currency(amount float64) string {
	return money(amount, 0)
}

// Cents returns a currency string with two decimal places (e.g., "-$1,234.56").
func Cents(amount float64) string {
	return money(amount, 2)
}

// NumericCurrency returns a currency string without a currency symbol but
// with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + groupThousands(d.Abs().StringFixed(2))
}

// Percent renders a fraction as a percentage with one decimal (0.0431 is "4.3%").
func Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(1) + "%"
}

// Multiple renders a coverage ratio such as DSCR (1.1866 is "1.19x").
func Multiple(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(ratio).StringFixed(2) + "x"
}

func money(amount float64, places int32) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(amount).Round(places)
	formatted := groupThousands(d.Abs().StringFixed(places))
	if d.IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

func groupThousands(value string) string {
	intPart, decPart, hasDec := strings.Cut(value, ".")

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

	if hasDec {
		return intPart + "." + decPart
	}
	return intPart
}
