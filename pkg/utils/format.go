// Package utils provides common utility functions for StockSentinel.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats an amount as US dollars with thousands separators ($12,345.67).
func FormatUSD(amount float64) string {
	negative := amount < 0
	s := fmt.Sprintf("%.2f", math.Abs(amount))
	intPart, decPart, _ := strings.Cut(s, ".")

	formatted := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatCompactUSD formats large amounts in compact notation.
// e.g., 2950000000000 → "$2.95T", 41500000 → "$41.5M"
func FormatCompactUSD(amount float64) string {
	prefix := "$"
	if amount < 0 {
		prefix = "-$"
	}
	amount = math.Abs(amount)

	switch {
	case amount >= 1e12:
		return prefix + formatWithDecimals(amount/1e12) + "T"
	case amount >= 1e9:
		return prefix + formatWithDecimals(amount/1e9) + "B"
	case amount >= 1e6:
		return prefix + formatWithDecimals(amount/1e6) + "M"
	case amount >= 1e3:
		return prefix + formatWithDecimals(amount/1e3) + "K"
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
