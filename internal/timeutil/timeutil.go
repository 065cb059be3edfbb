package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the plain ISO date used by every store, importer and API boundary.
const DateLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. DST shifts do not affect the result.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func IsWeekend(value time.Time) bool {
	switch value.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}
