package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"attendly/internal/timeutil"
)

var (
	ErrInvalidDateRange     = errors.New("end date precedes start date")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidInput         = errors.New("invalid leave input")
)

// Session marks which half of a day a leave boundary falls in.
type Session string

const (
	SessionAM Session = "AM"
	SessionPM Session = "PM"
)

func ParseSession(value string) (Session, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return "", fmt.Errorf("%w: session", ErrMissingRequiredField)
	case "AM":
		return SessionAM, nil
	case "PM":
		return SessionPM, nil
	default:
		return "", fmt.Errorf("unsupported session %q (supported: AM, PM)", value)
	}
}

func (s Session) Valid() bool {
	return s == SessionAM || s == SessionPM
}

// DateSpan is an inclusive range of calendar dates.
type DateSpan struct {
	Start time.Time
	End   time.Time
}

func NewDateSpan(start, end time.Time) (DateSpan, error) {
	span := DateSpan{Start: start, End: end}
	if err := span.Validate(); err != nil {
		return DateSpan{}, err
	}
	return span, nil
}

func (s DateSpan) Validate() error {
	if s.Start.IsZero() {
		return fmt.Errorf("%w: start date", ErrMissingRequiredField)
	}
	if s.End.IsZero() {
		return fmt.Errorf("%w: end date", ErrMissingRequiredField)
	}
	if timeutil.DaysBetween(s.Start, s.End) < 0 {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, timeutil.FormatDate(s.Start), timeutil.FormatDate(s.End))
	}
	return nil
}

func (s DateSpan) SingleDay() bool {
	return timeutil.SameDay(s.Start, s.End)
}

// CalendarDays counts every date in the span, weekends included.
func (s DateSpan) CalendarDays() int {
	return timeutil.DaysBetween(s.Start, s.End) + 1
}

// Weekdays counts the Monday..Friday dates in the span.
func (s DateSpan) Weekdays() int {
	count := 0
	total := s.CalendarDays()
	current := timeutil.StartOfDay(s.Start)
	for i := 0; i < total; i++ {
		if !timeutil.IsWeekend(current) {
			count++
		}
		current = current.AddDate(0, 0, 1)
	}
	return count
}
