package leave

import (
	"fmt"
	"math"

	"attendly/holiday"
)

// Input describes one leave duration computation.
type Input struct {
	Span            DateSpan
	StartSession    Session
	EndSession      Session
	IncludeWeekends bool
	ExcludeHolidays bool
}

func (in Input) Validate() error {
	if err := in.Span.Validate(); err != nil {
		return err
	}
	if !in.StartSession.Valid() {
		return fmt.Errorf("%w: start session", ErrMissingRequiredField)
	}
	if !in.EndSession.Valid() {
		return fmt.Errorf("%w: end session", ErrMissingRequiredField)
	}
	return nil
}

// ComputeDays returns the net leave duration in half-day units.
//
// Weekend exclusion changes the base before the session adjustment; the
// holiday deduction is applied last, against the session-adjusted value.
func ComputeDays(in Input, holidays []holiday.Record) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	days := sessionAdjusted(in)
	if in.ExcludeHolidays {
		days -= HolidayDeduction(in.Span, in.StartSession, in.EndSession, holidays)
	}

	return clampHalfDays(days), nil
}

// BaseDays is the day count before any session or holiday adjustment.
func BaseDays(span DateSpan, includeWeekends bool) int {
	if includeWeekends {
		return span.CalendarDays()
	}
	return span.Weekdays()
}

func sessionAdjusted(in Input) float64 {
	if in.Span.SingleDay() {
		// Same-day PM->AM is inverted but has always been charged as a half day.
		if in.StartSession == SessionAM && in.EndSession == SessionPM {
			return 1.0
		}
		return 0.5
	}

	base := float64(BaseDays(in.Span, in.IncludeWeekends))
	switch {
	case in.StartSession == SessionAM && in.EndSession == SessionPM:
		return base
	case in.StartSession == SessionPM && in.EndSession == SessionAM:
		return base - 1.0
	default:
		return base - 0.5
	}
}

func clampHalfDays(value float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Round(value*2) / 2
}
