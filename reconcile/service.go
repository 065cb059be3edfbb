package reconcile

import (
	"fmt"
	"time"

	"attendly/attendance"
	"attendly/internal/timeutil"
	"attendly/storage"
)

type Summary struct {
	DaysProcessed int
	RemarksSaved  int
	ByStatus      map[Status]int
	Failed        []string
}

// Run recomputes every stored employee-day and persists its remark. Days with
// a malformed roster are reported in Failed and skipped.
func Run(store *storage.SQLiteStore, opts Options) (*Summary, error) {
	days, err := store.ListEmployeeDays()
	if err != nil {
		return nil, err
	}

	summary := &Summary{ByStatus: make(map[Status]int)}
	if len(days) == 0 {
		return summary, nil
	}

	remarks := make([]attendance.Remark, 0, len(days))
	for _, day := range days {
		result, err := compareDay(store, day, opts)
		if err != nil {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s %s: %v", day.EmployeeID, timeutil.FormatDate(day.Date), err))
			continue
		}
		summary.DaysProcessed++
		for _, status := range result.Statuses {
			summary.ByStatus[status]++
		}
		remarks = append(remarks, toRemark(day, result))
	}

	saved, err := store.UpsertAttendanceRemarks(remarks)
	if err != nil {
		return nil, fmt.Errorf("persist attendance remarks: %w", err)
	}
	summary.RemarksSaved = saved
	return summary, nil
}

// ReconcileDay recomputes and persists the remark of a single employee-day.
func ReconcileDay(store *storage.SQLiteStore, employeeID string, date time.Time, opts Options) (Result, error) {
	day := attendance.EmployeeDay{EmployeeID: employeeID, Date: timeutil.StartOfDay(date)}
	result, err := compareDay(store, day, opts)
	if err != nil {
		return Result{}, err
	}
	if _, err := store.UpsertAttendanceRemarks([]attendance.Remark{toRemark(day, result)}); err != nil {
		return Result{}, fmt.Errorf("persist attendance remark: %w", err)
	}
	return result, nil
}

func compareDay(store *storage.SQLiteStore, day attendance.EmployeeDay, opts Options) (Result, error) {
	events, err := store.ListClockEvents(day.EmployeeID, day.Date)
	if err != nil {
		return Result{}, err
	}
	roster, err := store.GetRoster(day.EmployeeID, day.Date)
	if err != nil {
		return Result{}, err
	}
	return Compare(roster, events, opts)
}

func toRemark(day attendance.EmployeeDay, result Result) attendance.Remark {
	return attendance.Remark{
		EmployeeID:      day.EmployeeID,
		Date:            day.Date,
		Statuses:        result.StatusStrings(),
		LateMinutes:     result.LateMinutes,
		EarlyMinutes:    result.EarlyMinutes,
		OvertimeMinutes: result.OvertimeMinutes,
		FirstValid:      result.FirstValid,
		LastValid:       result.LastValid,
		Remarks:         FormatRemarks(result),
	}
}
