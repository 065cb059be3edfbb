package leave

import (
	"attendly/holiday"
	"attendly/internal/timeutil"
)

// HolidayDeduction returns the fractional days to subtract for holidays inside
// span. A holiday on a boundary date only costs the half that the leave
// actually covers. Each holiday date contributes once.
func HolidayDeduction(span DateSpan, startSession, endSession Session, holidays []holiday.Record) float64 {
	if len(holidays) == 0 {
		return 0
	}

	startKey := timeutil.FormatDate(span.Start)
	endKey := timeutil.FormatDate(span.End)
	singleDay := span.SingleDay()

	total := 0.0
	for _, record := range holiday.NewSet(holidays).Within(span.Start, span.End) {
		key := record.Key()
		switch {
		case key == startKey && singleDay:
			if startSession == SessionAM && endSession == SessionPM {
				total += 1.0
			} else {
				total += 0.5
			}
		case key == startKey:
			if startSession == SessionAM {
				total += 1.0
			} else {
				total += 0.5
			}
		case key == endKey:
			if endSession == SessionPM {
				total += 1.0
			} else {
				total += 0.5
			}
		default:
			total += 1.0
		}
	}

	return total
}
