package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"attendly/internal/timeutil"
)

var clockWithSeconds = regexp.MustCompile(`^(\d{1,2}:\d{2}):\d{2}$`)

// parseDate accepts the date layouts seen in roster sheets and terminal exports.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	layouts := []string{
		timeutil.DateLayout,
		"2006/01/02",
		"02.01.2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return timeutil.StartOfDay(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseClockTime normalizes a punch time to extended "HH:mm". Seconds are
// dropped and the compact "HHmm" form is accepted.
func parseClockTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	if match := clockWithSeconds.FindStringSubmatch(value); match != nil {
		value = match[1]
	}
	return timeutil.NormalizeExtendedTime(value)
}

// parseOptionalClockTime is parseClockTime for roster columns that may be blank.
func parseOptionalClockTime(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return parseClockTime(value)
}

func parseDirection(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "i", "in", "check-in", "checkin", "c/in":
		return "in"
	case "o", "out", "check-out", "checkout", "c/out":
		return "out"
	default:
		return ""
	}
}

func parseDayOffset(value string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "n":
		return 0, nil
	case "1", "true", "yes", "y":
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported day offset %q", value)
	}
}
