package output

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"attendly/attendance"
	"attendly/internal/timeutil"
	"attendly/leave"
)

// AttendanceTable lists one row per reconciled employee-day.
func AttendanceTable(remarks []attendance.Remark) Table {
	table := Table{
		Sheet:   "Attendance",
		Headers: []string{"EmployeeID", "Date", "FirstValid", "LastValid", "Statuses", "LateMinutes", "EarlyMinutes", "OvertimeMinutes", "Remarks"},
		Rows:    make([][]string, 0, len(remarks)),
	}
	for _, remark := range remarks {
		table.Rows = append(table.Rows, []string{
			remark.EmployeeID,
			timeutil.FormatDate(remark.Date),
			remark.FirstValid,
			remark.LastValid,
			strings.Join(remark.Statuses, ","),
			strconv.Itoa(remark.LateMinutes),
			strconv.Itoa(remark.EarlyMinutes),
			strconv.Itoa(remark.OvertimeMinutes),
			remark.Remarks,
		})
	}
	return table
}

func LeaveTable(requests []leave.Request) Table {
	table := Table{
		Sheet:   "Leave",
		Headers: []string{"ID", "EmployeeID", "LeaveType", "StartDate", "StartSession", "EndDate", "EndSession", "NetDays", "Status", "Reason", "CreatedAt"},
		Rows:    make([][]string, 0, len(requests)),
	}
	for _, request := range requests {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(request.ID, 10),
			request.EmployeeID,
			request.LeaveType,
			timeutil.FormatDate(request.StartDate),
			string(request.StartSession),
			timeutil.FormatDate(request.EndDate),
			string(request.EndSession),
			strconv.FormatFloat(request.NetDays, 'f', 1, 64),
			request.Status,
			request.Reason,
			request.CreatedAt.Format(time.RFC3339),
		})
	}
	return table
}

// EmployeeSummary aggregates reconciled days per employee.
type EmployeeSummary struct {
	EmployeeID      string
	Days            int
	OnTimeDays      int
	LateDays        int
	EarlyLeaveDays  int
	OvertimeDays    int
	AbsentDays      int
	LateMinutes     int
	EarlyMinutes    int
	OvertimeMinutes int
}

func BuildEmployeeSummaries(remarks []attendance.Remark) []EmployeeSummary {
	byEmployee := make(map[string]*EmployeeSummary)
	for _, remark := range remarks {
		summary, ok := byEmployee[remark.EmployeeID]
		if !ok {
			summary = &EmployeeSummary{EmployeeID: remark.EmployeeID}
			byEmployee[remark.EmployeeID] = summary
		}
		summary.Days++
		summary.LateMinutes += remark.LateMinutes
		summary.EarlyMinutes += remark.EarlyMinutes
		summary.OvertimeMinutes += remark.OvertimeMinutes
		for _, status := range remark.Statuses {
			switch status {
			case "on_time":
				summary.OnTimeDays++
			case "late":
				summary.LateDays++
			case "early_leave":
				summary.EarlyLeaveDays++
			case "overtime":
				summary.OvertimeDays++
			case "absent":
				summary.AbsentDays++
			}
		}
	}

	out := make([]EmployeeSummary, 0, len(byEmployee))
	for _, summary := range byEmployee {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

func SummaryTable(summaries []EmployeeSummary) Table {
	table := Table{
		Sheet:   "Summary",
		Headers: []string{"EmployeeID", "Days", "OnTimeDays", "LateDays", "EarlyLeaveDays", "OvertimeDays", "AbsentDays", "LateMinutes", "EarlyMinutes", "OvertimeMinutes"},
		Rows:    make([][]string, 0, len(summaries)),
	}
	for _, summary := range summaries {
		table.Rows = append(table.Rows, []string{
			summary.EmployeeID,
			strconv.Itoa(summary.Days),
			strconv.Itoa(summary.OnTimeDays),
			strconv.Itoa(summary.LateDays),
			strconv.Itoa(summary.EarlyLeaveDays),
			strconv.Itoa(summary.OvertimeDays),
			strconv.Itoa(summary.AbsentDays),
			strconv.Itoa(summary.LateMinutes),
			strconv.Itoa(summary.EarlyMinutes),
			strconv.Itoa(summary.OvertimeMinutes),
		})
	}
	return table
}
