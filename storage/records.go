package storage

import (
	"fmt"
	"strings"
	"time"

	"attendly/attendance"
	"attendly/internal/timeutil"
	"attendly/leave"
)

// InsertLeaveRequest implements leave.RequestStore.
func (s *SQLiteStore) InsertLeaveRequest(request leave.Request) (int64, error) {
	const insertStmt = `
INSERT INTO leave_requests (
	employee_id,
	leave_type,
	start_date,
	end_date,
	start_session,
	end_session,
	include_weekends,
	exclude_holidays,
	net_days,
	reason,
	status,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	createdAt := request.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.Exec(
		insertStmt,
		request.EmployeeID,
		request.LeaveType,
		timeutil.FormatDate(request.StartDate),
		timeutil.FormatDate(request.EndDate),
		string(request.StartSession),
		string(request.EndSession),
		boolToInt(request.IncludeWeekends),
		boolToInt(request.ExcludeHolidays),
		request.NetDays,
		request.Reason,
		request.Status,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert leave request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	return id, nil
}

// ListLeaveRequests returns requests newest first. An empty employeeID lists
// every employee.
func (s *SQLiteStore) ListLeaveRequests(employeeID string) ([]leave.Request, error) {
	query := `
SELECT
	id,
	employee_id,
	leave_type,
	start_date,
	end_date,
	start_session,
	end_session,
	include_weekends,
	exclude_holidays,
	net_days,
	reason,
	status,
	created_at
FROM leave_requests`
	args := make([]any, 0, 1)
	if strings.TrimSpace(employeeID) != "" {
		query += ` WHERE employee_id = ?`
		args = append(args, strings.TrimSpace(employeeID))
	}
	query += ` ORDER BY created_at DESC, id DESC;`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0, 16)
	for rows.Next() {
		var (
			request                  leave.Request
			startRaw, endRaw         string
			startSession, endSession string
			includeWeekends          int
			excludeHolidays          int
			createdRaw               string
		)
		if err := rows.Scan(
			&request.ID,
			&request.EmployeeID,
			&request.LeaveType,
			&startRaw,
			&endRaw,
			&startSession,
			&endSession,
			&includeWeekends,
			&excludeHolidays,
			&request.NetDays,
			&request.Reason,
			&request.Status,
			&createdRaw,
		); err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		if request.StartDate, err = s.parseDate(startRaw); err != nil {
			return nil, err
		}
		if request.EndDate, err = s.parseDate(endRaw); err != nil {
			return nil, err
		}
		if request.CreatedAt, err = time.Parse(time.RFC3339, createdRaw); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
		}
		request.StartSession = leave.Session(startSession)
		request.EndSession = leave.Session(endSession)
		request.IncludeWeekends = includeWeekends != 0
		request.ExcludeHolidays = excludeHolidays != 0
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leave requests: %w", err)
	}

	return requests, nil
}

func (s *SQLiteStore) UpsertAttendanceRemarks(remarks []attendance.Remark) (int, error) {
	if len(remarks) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const upsertStmt = `
INSERT INTO attendance_remarks (
	employee_id,
	remark_date,
	statuses,
	late_minutes,
	early_minutes,
	overtime_minutes,
	first_valid,
	last_valid,
	remarks,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(employee_id, remark_date) DO UPDATE SET
	statuses = excluded.statuses,
	late_minutes = excluded.late_minutes,
	early_minutes = excluded.early_minutes,
	overtime_minutes = excluded.overtime_minutes,
	first_valid = excluded.first_valid,
	last_valid = excluded.last_valid,
	remarks = excluded.remarks,
	updated_at = excluded.updated_at;`

	stmt, err := tx.Prepare(upsertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare remark statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	stored := 0
	for _, remark := range remarks {
		if _, err := stmt.Exec(
			remark.EmployeeID,
			timeutil.FormatDate(remark.Date),
			strings.Join(remark.Statuses, ","),
			remark.LateMinutes,
			remark.EarlyMinutes,
			remark.OvertimeMinutes,
			remark.FirstValid,
			remark.LastValid,
			remark.Remarks,
			now,
		); err != nil {
			_ = tx.Rollback()
			return stored, fmt.Errorf("upsert remark %s %s: %w", remark.EmployeeID, timeutil.FormatDate(remark.Date), err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

// ListAttendanceRemarks returns remarks inside [from, to]. Zero bounds are
// open.
func (s *SQLiteStore) ListAttendanceRemarks(from, to time.Time) ([]attendance.Remark, error) {
	query := `
SELECT
	employee_id,
	remark_date,
	statuses,
	late_minutes,
	early_minutes,
	overtime_minutes,
	first_valid,
	last_valid,
	remarks,
	updated_at
FROM attendance_remarks
WHERE 1 = 1`
	args := make([]any, 0, 2)
	if !from.IsZero() {
		query += ` AND remark_date >= ?`
		args = append(args, timeutil.FormatDate(from))
	}
	if !to.IsZero() {
		query += ` AND remark_date <= ?`
		args = append(args, timeutil.FormatDate(to))
	}
	query += ` ORDER BY remark_date, employee_id;`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance remarks: %w", err)
	}
	defer rows.Close()

	remarks := make([]attendance.Remark, 0, 64)
	for rows.Next() {
		var (
			remark      attendance.Remark
			dateRaw     string
			statusesRaw string
			updatedRaw  string
		)
		if err := rows.Scan(
			&remark.EmployeeID,
			&dateRaw,
			&statusesRaw,
			&remark.LateMinutes,
			&remark.EarlyMinutes,
			&remark.OvertimeMinutes,
			&remark.FirstValid,
			&remark.LastValid,
			&remark.Remarks,
			&updatedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan attendance remark: %w", err)
		}
		if remark.Date, err = s.parseDate(dateRaw); err != nil {
			return nil, err
		}
		if remark.UpdatedAt, err = time.Parse(time.RFC3339, updatedRaw); err != nil {
			return nil, fmt.Errorf("parse updated_at %q: %w", updatedRaw, err)
		}
		if statusesRaw != "" {
			remark.Statuses = strings.Split(statusesRaw, ",")
		}
		remarks = append(remarks, remark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance remarks: %w", err)
	}

	return remarks, nil
}
