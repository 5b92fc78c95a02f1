// Package format renders amounts and rates for human-readable output.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/mathutil"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	amount = mathutil.Round(amount)
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	amount = mathutil.Round(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositiveCurrency(math.Abs(amount))
}

// Percent renders a percentage value with two decimals (e.g., 50.76 -> "50.76%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", mathutil.Round(value))
}

// Term renders a period count with its label, singularizing one period ("1 month").
func Term(periods int, label string) string {
	if periods == 1 {
		label = strings.TrimSuffix(label, "s")
	}
	return fmt.Sprintf("%d %s", periods, label)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	intPart, decPart, found := strings.Cut(formatted, ".")
	if !found {
		decPart = "00"
	}

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

	return intPart + "." + decPart
}
