package models

// Fallback values used when stock metadata cannot be resolved.
const UnknownField = "Unknown"

// StockInfo is best-effort metadata for a ticker.
// Price fields are nil when the upstream source did not report them.
type StockInfo struct {
	Ticker           string   `json:"ticker"                   yaml:"ticker"`
	CompanyName      string   `json:"company_name"             yaml:"company_name"`
	Sector           string   `json:"sector"                   yaml:"sector"`
	Industry         string   `json:"industry"                 yaml:"industry"`
	MarketCap        *float64 `json:"market_cap,omitempty"     yaml:"market_cap,omitempty"`
	CurrentPrice     *float64 `json:"current_price,omitempty"  yaml:"current_price,omitempty"`
	PreviousClose    *float64 `json:"previous_close,omitempty" yaml:"previous_close,omitempty"`
	DayChangePercent float64  `json:"day_change_percent"       yaml:"day_change_percent"`
}

// FallbackStockInfo returns the record used when a metadata lookup fails.
func FallbackStockInfo(ticker string) StockInfo {
	return StockInfo{
		Ticker:      ticker,
		CompanyName: ticker,
		Sector:      UnknownField,
		Industry:    UnknownField,
	}
}

// DayChangePercent returns (current - previous) / previous * 100,
// or 0 when either price is missing or zero.
func DayChangePercent(current, previous *float64) float64 {
	if current == nil || previous == nil || *current == 0 || *previous == 0 {
		return 0
	}
	return (*current - *previous) / *previous * 100
}
