// Package format renders metric values as display strings for KPI cards and exports.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// Number returns value with thousands separators and the given number of decimals (e.g., "1,234" or "1,234.5").
func Number(value float64, decimals int32) string {
	s := decimal.NewFromFloat(value).StringFixed(decimals)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if isZero(s) {
		sign = ""
	}

	intPart, decPart, hasDec := strings.Cut(s, ".")
	intPart = groupThousands(intPart)
	if hasDec {
		return sign + intPart + "." + decPart
	}
	return sign + intPart
}

// Currency returns value with a currency symbol and thousands separators (e.g., "-$1,234").
func Currency(value float64, symbol string, decimals int32) string {
	formatted := Number(value, decimals)
	if strings.HasPrefix(formatted, "-") {
		return "-" + symbol + formatted[1:]
	}
	return symbol + formatted
}

// Percentage returns value with a percent sign (e.g., "12.3%"). No thousands separators are added.
func Percentage(value float64, decimals int32) string {
	s := decimal.NewFromFloat(value).StringFixed(decimals)
	if strings.HasPrefix(s, "-") && isZero(s[1:]) {
		s = s[1:]
	}
	return s + "%"
}

// Value formats value according to a metric kind: counts as whole numbers,
// currency in whole dollars and rates as one-decimal percentages.
func Value(kind model.MetricKind, value float64) string {
	switch kind {
	case model.KindCurrency:
		return Currency(value, "$", 0)
	case model.KindRate:
		return Percentage(value, 1)
	default:
		return Number(value, 0)
	}
}

// Delta renders a delta with a direction arrow, e.g. "▲ 5.2%" or "▼ 1.0 pts".
func Delta(delta float64, kind model.DeltaKind) string {
	arrow := "●"
	switch {
	case delta > 0:
		arrow = "▲"
	case delta < 0:
		arrow = "▼"
	}

	abs := decimal.NewFromFloat(delta).Abs().StringFixed(1)
	if kind == model.DeltaPoint {
		return arrow + " " + abs + " pts"
	}
	return arrow + " " + abs + "%"
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}

func isZero(s string) bool {
	return strings.Trim(s, "0.") == ""
}
