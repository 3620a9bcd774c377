package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout news APIs expect for date ranges.
const DateLayout = "2006-01-02"

// DateRange returns the (from, to) dates covering the last days days up to now.
func DateRange(now time.Time, days int) (string, string) {
	return now.AddDate(0, 0, -days).Format(DateLayout), now.Format(DateLayout)
}

// FormatTimestamp renders t as an RFC3339 UTC string ("2024-01-02T15:04:05Z").
// All providers normalize to this form so published_at values compare lexically.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// isoLayouts are tried in order by ParseTimestamp. Layouts without a zone
// are interpreted in local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" is accepted as +00:00.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
