// ABOUTME: Timestamp formatting and lenient parsing for record date fields.
// ABOUTME: Date-only and zone-less values are interpreted in the supplied location.
package models

import "time"

// TimeLayout is the ISO-8601 form written for every timestamp.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the calendar-date form used for date-range bounds.
const DateLayout = "2006-01-02"

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses an ISO-8601 timestamp. ok is false for empty or
// unparseable input.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
