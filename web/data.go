package web

import (
	"attendly/attendance"
	"attendly/holiday"
	"attendly/internal/timeutil"
	"attendly/reconcile"
)

type EventRow struct {
	Key       string `json:"key"`
	Time      string `json:"time"`
	DayOffset int    `json:"dayOffset,omitempty"`
	Direction string `json:"direction,omitempty"`
	Valid     bool   `json:"valid"`
	Source    string `json:"source"`
}

// DayView is one employee-day as the attendance endpoints report it: the
// punches in stored order, the roster window and the classification.
type DayView struct {
	EmployeeID string                   `json:"employeeId"`
	Date       string                   `json:"date"`
	Events     []EventRow               `json:"events"`
	Roster     *attendance.RosterWindow `json:"roster,omitempty"`
	Result     *reconcile.Result        `json:"result,omitempty"`
	Remarks    string                   `json:"remarks,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

type HolidayRow struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// BuildDayView classifies the day on the fly. A malformed roster is reported
// on the view rather than failing the request.
func BuildDayView(day *attendance.Day, roster *attendance.RosterWindow, opts reconcile.Options) DayView {
	events := day.Events()
	view := DayView{
		EmployeeID: day.EmployeeID,
		Date:       timeutil.FormatDate(day.Date),
		Events:     make([]EventRow, 0, len(events)),
		Roster:     roster,
	}
	for _, event := range events {
		view.Events = append(view.Events, EventRow{
			Key:       string(event.Key()),
			Time:      event.Time,
			DayOffset: event.DayOffset,
			Direction: event.Direction,
			Valid:     event.Valid,
			Source:    string(event.Source),
		})
	}

	result, err := reconcile.Compare(roster, events, opts)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Result = &result
	view.Remarks = reconcile.FormatRemarks(result)
	return view
}

func BuildHolidayRows(records []holiday.Record) []HolidayRow {
	rows := make([]HolidayRow, 0, len(records))
	for _, record := range holiday.NewSet(records).Records() {
		rows = append(rows, HolidayRow{Date: record.Key(), Name: record.Name})
	}
	return rows
}
