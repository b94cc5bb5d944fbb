package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical on-disk timestamp format. New and updated
// records are always written in this layout; ParseDate additionally
// accepts the older formats that accumulated in long-lived data files.
const DateLayout = "2006-01-02T15:04:05"

var fallbackLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses a stored timestamp, trying the canonical layout
// first and falling back to legacy formats. Offsets are stripped so
// that mixed naive/aware values stay comparable.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// FormatDate renders a timestamp in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate re-renders a stored timestamp in the canonical layout.
// Values that cannot be parsed are returned unchanged; aggregate
// queries skip them instead.
func NormalizeDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return FormatDate(t)
}

// Now returns the current time formatted for storage.
func Now() string {
	return FormatDate(time.Now())
}
