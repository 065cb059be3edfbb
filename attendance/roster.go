package attendance

import (
	"strings"
	"time"
)

// RosterWindow is the scheduled shift of one employee-day. Either time may be
// empty; both use extended hour notation.
type RosterWindow struct {
	EmployeeID     string    `json:"employeeId"`
	Date           time.Time `json:"date"`
	ScheduledStart string    `json:"scheduledStart,omitempty"`
	ScheduledEnd   string    `json:"scheduledEnd,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// Empty reports whether the window carries no scheduled time at all.
func (r *RosterWindow) Empty() bool {
	return r == nil || (strings.TrimSpace(r.ScheduledStart) == "" && strings.TrimSpace(r.ScheduledEnd) == "")
}

// Remark is the persisted outcome of comparing an employee-day against its
// roster.
type Remark struct {
	EmployeeID      string    `json:"employeeId"`
	Date            time.Time `json:"date"`
	Statuses        []string  `json:"statuses"`
	LateMinutes     int       `json:"lateMinutes"`
	EarlyMinutes    int       `json:"earlyMinutes"`
	OvertimeMinutes int       `json:"overtimeMinutes"`
	FirstValid      string    `json:"firstValid,omitempty"`
	LastValid       string    `json:"lastValid,omitempty"`
	Remarks         string    `json:"remarks"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EmployeeDay addresses the events of one employee on one calendar date.
type EmployeeDay struct {
	EmployeeID string
	Date       time.Time
}
