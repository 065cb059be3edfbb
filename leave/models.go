package leave

import (
	"time"

	"attendly/holiday"
)

const StatusPending = "pending"

// ComputeRequest is the raw, user-supplied form of Input. Nil flags fall back
// to the configured defaults.
type ComputeRequest struct {
	StartDate       string `json:"startDate" validate:"required"`
	EndDate         string `json:"endDate" validate:"required"`
	StartSession    string `json:"startSession" validate:"required"`
	EndSession      string `json:"endSession" validate:"required"`
	IncludeWeekends *bool  `json:"includeWeekends,omitempty"`
	ExcludeHolidays *bool  `json:"excludeHolidays,omitempty"`
}

type SubmitRequest struct {
	ComputeRequest
	EmployeeID string `json:"employeeId" validate:"required"`
	LeaveType  string `json:"leaveType" validate:"required"`
	Reason     string `json:"reason" validate:"max=500"`
}

// Result is a computed leave duration plus the figures it was derived from.
type Result struct {
	NetDays             float64          `json:"netDays"`
	BaseDays            int              `json:"baseDays"`
	HolidayDeduction    float64          `json:"holidayDeduction"`
	Holidays            []holiday.Record `json:"-"`
	HolidayLookupFailed bool             `json:"holidayLookupFailed"`
}

// Request is a leave request with its computed duration, ready to be handed to
// approval storage.
type Request struct {
	ID              int64     `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	LeaveType       string    `json:"leaveType"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	StartSession    Session   `json:"startSession"`
	EndSession      Session   `json:"endSession"`
	IncludeWeekends bool      `json:"includeWeekends"`
	ExcludeHolidays bool      `json:"excludeHolidays"`
	NetDays         float64   `json:"netDays"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}
