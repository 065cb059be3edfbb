package storage

import (
	"fmt"
	"sort"
	"time"

	"attendly/attendance"
	"attendly/internal/timeutil"
)

const clockEventColumns = `
	id,
	employee_id,
	branch_code,
	event_date,
	clock_time,
	day_offset,
	direction,
	is_valid,
	source,
	source_file`

// InsertClockEvents stores imported punches. Re-importing the same file is a
// no-op thanks to the import unique index.
func (s *SQLiteStore) InsertClockEvents(events []attendance.ClockEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO clock_events (
	employee_id,
	branch_code,
	event_date,
	clock_time,
	day_offset,
	direction,
	is_valid,
	source,
	source_file
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, event := range events {
		res, err := stmt.Exec(clockEventArgs(event)...)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert clock event: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

// CreateClockEvents persists curated drafts and returns their new ids in input
// order.
func (s *SQLiteStore) CreateClockEvents(events []attendance.ClockEvent) ([]int64, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT INTO clock_events (
	employee_id,
	branch_code,
	event_date,
	clock_time,
	day_offset,
	direction,
	is_valid,
	source,
	source_file
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(events))
	for _, event := range events {
		res, err := stmt.Exec(clockEventArgs(event)...)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("create clock event: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("read inserted row id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return ids, nil
}

func clockEventArgs(event attendance.ClockEvent) []any {
	source := event.Source
	if source == "" {
		source = attendance.SourceImported
	}
	return []any{
		event.EmployeeID,
		event.BranchCode,
		timeutil.FormatDate(event.Date),
		event.Time,
		event.DayOffset,
		event.Direction,
		boolToInt(event.Valid),
		string(source),
		event.SourceFile,
	}
}

// ListClockEvents returns the events of one employee-day in insertion order.
func (s *SQLiteStore) ListClockEvents(employeeID string, date time.Time) ([]attendance.ClockEvent, error) {
	query := `SELECT` + clockEventColumns + `
FROM clock_events
WHERE employee_id = ? AND event_date = ?
ORDER BY id;`

	rows, err := s.db.Query(query, employeeID, timeutil.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("query clock events: %w", err)
	}
	defer rows.Close()

	events := make([]attendance.ClockEvent, 0, 8)
	for rows.Next() {
		var (
			event   attendance.ClockEvent
			dateRaw string
			valid   int
			source  string
		)
		if err := rows.Scan(
			&event.ID,
			&event.EmployeeID,
			&event.BranchCode,
			&dateRaw,
			&event.Time,
			&event.DayOffset,
			&event.Direction,
			&valid,
			&source,
			&event.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scan clock event: %w", err)
		}
		event.Date, err = s.parseDate(dateRaw)
		if err != nil {
			return nil, err
		}
		event.Valid = valid != 0
		event.Source = attendance.Source(source)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clock events: %w", err)
	}

	return events, nil
}

// ListEmployeeDays returns every employee-day that has punches or a roster,
// ordered by date then employee.
func (s *SQLiteStore) ListEmployeeDays() ([]attendance.EmployeeDay, error) {
	const query = `
SELECT employee_id, event_date FROM clock_events
UNION
SELECT employee_id, roster_date FROM rosters
ORDER BY 2, 1;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query employee days: %w", err)
	}
	defer rows.Close()

	days := make([]attendance.EmployeeDay, 0, 64)
	for rows.Next() {
		var (
			day     attendance.EmployeeDay
			dateRaw string
		)
		if err := rows.Scan(&day.EmployeeID, &dateRaw); err != nil {
			return nil, fmt.Errorf("scan employee day: %w", err)
		}
		day.Date, err = s.parseDate(dateRaw)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee days: %w", err)
	}

	return days, nil
}

func (s *SQLiteStore) UpdateClockEventValidity(updates map[int64]bool) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	values := make(map[int64]any, len(updates))
	for id, valid := range updates {
		values[id] = boolToInt(valid)
	}
	return s.updateClockEvents(`UPDATE clock_events SET is_valid = ? WHERE id = ?;`, values)
}

func (s *SQLiteStore) UpdateClockEventTimes(updates map[int64]string) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	values := make(map[int64]any, len(updates))
	for id, text := range updates {
		normalized, err := timeutil.NormalizeExtendedTime(text)
		if err != nil {
			return 0, fmt.Errorf("clock event %d: %w", id, err)
		}
		values[id] = normalized
	}
	return s.updateClockEvents(`UPDATE clock_events SET clock_time = ? WHERE id = ?;`, values)
}

func (s *SQLiteStore) updateClockEvents(updateStmt string, values map[int64]any) (int, error) {
	ids := make([]int64, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(updateStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare update statement: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		res, err := stmt.Exec(values[id], id)
		if err != nil {
			_ = tx.Rollback()
			return updated, fmt.Errorf("update clock event %d: %w", id, err)
		}

		rowsAffected, err := res.RowsAffected()
		if err == nil && rowsAffected > 0 {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return updated, fmt.Errorf("commit update transaction: %w", err)
	}

	return updated, nil
}
