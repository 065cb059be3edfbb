package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extended hour notation: hours 0..32 where 24..32 fall on the calendar day
// after the window anchor, e.g. "26:00" is 02:00 the next morning.
const (
	MaxExtendedHour = 32
	MinutesPerDay   = 24 * 60
)

var ErrInvalidTimeFormat = errors.New("invalid time format")

var (
	extendedPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	compactPattern  = regexp.MustCompile(`^\d{4}$`)
)

// ParseExtendedTime converts "HH:mm" (or compact "HHmm") into minutes since the
// start of the window.
func ParseExtendedTime(text string) (int, error) {
	hour, minute, err := splitExtended(text)
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// NormalizeExtendedTime returns the zero-padded "HH:mm" form, so textual and
// numeric ordering agree.
func NormalizeExtendedTime(text string) (string, error) {
	hour, minute, err := splitExtended(text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// FormatExtendedTime is the inverse of ParseExtendedTime.
func FormatExtendedTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ExtendedHour returns the raw hour component of a parsed extended time.
func ExtendedHour(minutes int) int {
	return minutes / 60
}

// CompareAcrossMidnight shifts candidateMinutes one day forward when its raw
// hour is below the anchor hour and before noon: a small hour following a late
// anchor is read as the next morning.
func CompareAcrossMidnight(anchorHour, candidateMinutes int) int {
	candidateHour := candidateMinutes / 60
	if candidateHour < anchorHour && candidateHour < 12 {
		return candidateMinutes + MinutesPerDay
	}
	return candidateMinutes
}

// WithDayOffset applies an explicit day offset recorded on the event itself.
func WithDayOffset(minutes, dayOffset int) int {
	return minutes + dayOffset*MinutesPerDay
}

func splitExtended(text string) (int, int, error) {
	cleaned := strings.TrimSpace(text)
	if compactPattern.MatchString(cleaned) {
		cleaned = cleaned[:2] + ":" + cleaned[2:]
	}

	match := extendedPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return 0, 0, fmt.Errorf("%w: %q (expected HH:mm)", ErrInvalidTimeFormat, text)
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeFormat, text, err)
	}
	minute, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeFormat, text, err)
	}
	if hour > MaxExtendedHour {
		return 0, 0, fmt.Errorf("%w: %q: hour must be within 0..%d", ErrInvalidTimeFormat, text, MaxExtendedHour)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q: minute must be within 0..59", ErrInvalidTimeFormat, text)
	}

	return hour, minute, nil
}
