package importer

import (
	"fmt"
	"sort"
	"time"

	"attendly/attendance"
	"attendly/internal/timeutil"
)

// DayStore loads the stored punches of one employee-day and saves curated
// changes back.
type DayStore interface {
	ListClockEvents(employeeID string, date time.Time) ([]attendance.ClockEvent, error)
	attendance.Saver
}

// ReselectStoredDays re-applies the punch heuristic to the stored events of
// every employee-day touched by events. A day is only changed when the
// stored events hold more than n valid punches, as happens when two
// terminals export the same day separately. It returns the number of days
// changed.
func ReselectStoredDays(store DayStore, events []attendance.ClockEvent, n int) (int, error) {
	if n <= 0 {
		n = attendance.DefaultValidPunches
	}

	days := make(map[string]attendance.EmployeeDay)
	for _, event := range events {
		key := event.EmployeeID + "|" + timeutil.FormatDate(event.Date)
		days[key] = attendance.EmployeeDay{EmployeeID: event.EmployeeID, Date: event.Date}
	}
	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	changed := 0
	for _, key := range keys {
		target := days[key]
		stored, err := store.ListClockEvents(target.EmployeeID, target.Date)
		if err != nil {
			return changed, fmt.Errorf("load %s %s: %w", target.EmployeeID, timeutil.FormatDate(target.Date), err)
		}
		if len(attendance.ValidEvents(stored)) <= n {
			continue
		}

		day := attendance.NewDay(target.EmployeeID, target.Date, stored)
		day.AutoSelectEarliestN(n)
		saved, err := day.Save(store)
		if err != nil {
			return changed, fmt.Errorf("save %s %s: %w", target.EmployeeID, timeutil.FormatDate(target.Date), err)
		}
		if saved.ValidityUpdated > 0 {
			changed++
		}
	}
	return changed, nil
}
