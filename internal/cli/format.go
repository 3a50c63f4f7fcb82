// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency formats a USD amount rounded to whole dollars.
// e.g., 5944 -> "$5,944", -97 -> "-$97"
func FormatCurrency(v float64) string {
	n := int64(math.Floor(v + 0.5))
	if n < 0 {
		return "-$" + FormatNumber(-n)
	}
	return "$" + FormatNumber(n)
}

// FormatCost formats a catalog price, keeping cents only when present.
// e.g., 97 -> "$97", 19.5 -> "$19.50"
func FormatCost(cost float64) string {
	if cost == math.Trunc(cost) {
		return FormatCurrency(cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatHours formats hours with one decimal.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f h", h)
}

// FormatROIPercent formats an integer ROI percentage, or "n/a" when absent.
func FormatROIPercent(pct *int) string {
	if pct == nil {
		return "n/a"
	}
	return FormatNumber(int64(*pct)) + "%"
}

// FormatPayback formats a payback period in days.
// nil means there is no value to pay the plan back with.
func FormatPayback(days *int) string {
	if days == nil {
		return "n/a (no projected value)"
	}
	switch d := *days; {
	case d < 1:
		return "< 1 day"
	case d == 1:
		return "1 day"
	default:
		return FormatNumber(int64(d)) + " days"
	}
}

// FormatMultiplier formats a lead multiplier, e.g. 3.2 -> "3.2x".
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "x"
}
