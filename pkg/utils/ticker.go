package utils

import (
	"strings"
	"unicode"
)

// MaxTickerLength is the longest ticker symbol accepted.
const MaxTickerLength = 5

// FormatTicker uppercases and trims a user-supplied ticker.
// A leading "$" (common in chat and social posts) is dropped.
func FormatTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	return strings.TrimPrefix(ticker, "$")
}

// IsValidTicker reports whether ticker has the shape of a US equity symbol:
// 1 to MaxTickerLength ASCII letters. It performs no network lookup.
func IsValidTicker(ticker string) bool {
	ticker = FormatTicker(ticker)
	if ticker == "" || len(ticker) > MaxTickerLength {
		return false
	}
	for _, r := range ticker {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
