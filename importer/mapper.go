package importer

import (
	"fmt"
	"strings"
	"time"

	"attendly/attendance"
	"attendly/holiday"
)

type Kind string

const (
	KindClock   Kind = "clock"
	KindRoster  Kind = "roster"
	KindHoliday Kind = "holiday"
)

func SupportedKinds() []string {
	return []string{string(KindClock), string(KindRoster), string(KindHoliday)}
}

// ClockMapper maps terminal rows {employee_id, branch_code, date, clock_time,
// in_out_marker} to imported clock events. Rows without an employee are
// skipped.
type ClockMapper struct {
	Location *time.Location
}

func (m *ClockMapper) Map(record Record, sourceFile string) (*attendance.ClockEvent, bool, error) {
	employeeID := record.Get("employee_id", "employee", "emp_id", "staff_id", "badge")
	if employeeID == "" {
		return nil, false, nil
	}

	date, err := parseDate(record.Get("date", "clock_date", "punch_date"), m.location())
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
	}

	clock, err := parseClockTime(record.Get("clock_time", "time", "punch_time"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse clock time: %w", record.RowNumber, err)
	}

	offset, err := parseDayOffset(record.Get("day_offset", "next_day"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	event := &attendance.ClockEvent{
		EmployeeID: employeeID,
		BranchCode: record.Get("branch_code", "branch", "location"),
		Date:       date,
		Time:       clock,
		DayOffset:  offset,
		Direction:  parseDirection(record.Get("in_out_marker", "in_out", "direction", "marker")),
		Valid:      true,
		Source:     attendance.SourceImported,
		SourceFile: sourceFile,
	}
	return event, true, nil
}

func (m *ClockMapper) location() *time.Location {
	if m.Location == nil {
		return time.Local
	}
	return m.Location
}

// RosterMapper maps {employee_id, date, scheduled_start, scheduled_end,
// location}. Either scheduled time may be blank.
type RosterMapper struct {
	Location *time.Location
}

func (m *RosterMapper) Map(record Record) (*attendance.RosterWindow, bool, error) {
	employeeID := record.Get("employee_id", "employee", "emp_id", "staff_id")
	if employeeID == "" {
		return nil, false, nil
	}

	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	date, err := parseDate(record.Get("date", "roster_date", "shift_date"), loc)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
	}

	start, err := parseOptionalClockTime(record.Get("scheduled_start", "start", "shift_start"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse scheduled start: %w", record.RowNumber, err)
	}
	end, err := parseOptionalClockTime(record.Get("scheduled_end", "end", "shift_end"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse scheduled end: %w", record.RowNumber, err)
	}

	return &attendance.RosterWindow{
		EmployeeID:     employeeID,
		Date:           date,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Location:       record.Get("location", "branch", "site"),
	}, true, nil
}

// HolidayMapper maps {date, name}. Year is required; rows dated in any other
// year are rejected.
type HolidayMapper struct {
	Year     int
	Location *time.Location
}

func (m *HolidayMapper) Map(record Record) (*holiday.Record, bool, error) {
	rawDate := record.Get("date", "holiday_date")
	if rawDate == "" {
		return nil, false, nil
	}
	if m.Year <= 0 {
		return nil, false, fmt.Errorf("holiday import requires an explicit year")
	}

	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	date, err := parseDate(rawDate, loc)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
	}
	if date.Year() != m.Year {
		return nil, false, fmt.Errorf("row %d: holiday %s is outside year %d", record.RowNumber, rawDate, m.Year)
	}

	name := strings.TrimSpace(record.Get("name", "holiday", "description"))
	if name == "" {
		name = "Public holiday"
	}
	return &holiday.Record{Date: date, Name: name}, true, nil
}
