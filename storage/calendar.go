package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"attendly/attendance"
	"attendly/holiday"
	"attendly/internal/timeutil"
)

// InsertHolidays stores calendar records. A date already present keeps its row
// and takes the new name.
func (s *SQLiteStore) InsertHolidays(records []holiday.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const upsertStmt = `
INSERT INTO holidays (holiday_date, name) VALUES (?, ?)
ON CONFLICT(holiday_date) DO UPDATE SET name = excluded.name;`

	stmt, err := tx.Prepare(upsertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare holiday statement: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, record := range records {
		if _, err := stmt.Exec(record.Key(), record.Name); err != nil {
			_ = tx.Rollback()
			return stored, fmt.Errorf("insert holiday %s: %w", record.Key(), err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

// ListHolidays implements holiday.Source.
func (s *SQLiteStore) ListHolidays(start, end time.Time) ([]holiday.Record, error) {
	const query = `
SELECT holiday_date, name
FROM holidays
WHERE holiday_date BETWEEN ? AND ?
ORDER BY holiday_date;`

	rows, err := s.db.Query(query, timeutil.FormatDate(start), timeutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	records := make([]holiday.Record, 0, 16)
	for rows.Next() {
		var (
			record  holiday.Record
			dateRaw string
		)
		if err := rows.Scan(&dateRaw, &record.Name); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		record.Date, err = s.parseDate(dateRaw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holidays: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) UpsertRosters(rosters []attendance.RosterWindow) (int, error) {
	if len(rosters) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const upsertStmt = `
INSERT INTO rosters (employee_id, roster_date, scheduled_start, scheduled_end, location)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(employee_id, roster_date) DO UPDATE SET
	scheduled_start = excluded.scheduled_start,
	scheduled_end = excluded.scheduled_end,
	location = excluded.location;`

	stmt, err := tx.Prepare(upsertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare roster statement: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, roster := range rosters {
		if _, err := stmt.Exec(
			roster.EmployeeID,
			timeutil.FormatDate(roster.Date),
			roster.ScheduledStart,
			roster.ScheduledEnd,
			roster.Location,
		); err != nil {
			_ = tx.Rollback()
			return stored, fmt.Errorf("upsert roster %s %s: %w", roster.EmployeeID, timeutil.FormatDate(roster.Date), err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

// GetRoster returns nil without error when the employee has no roster on date.
func (s *SQLiteStore) GetRoster(employeeID string, date time.Time) (*attendance.RosterWindow, error) {
	const query = `
SELECT scheduled_start, scheduled_end, location
FROM rosters
WHERE employee_id = ? AND roster_date = ?;`

	roster := &attendance.RosterWindow{EmployeeID: employeeID, Date: timeutil.StartOfDay(date)}
	err := s.db.QueryRow(query, employeeID, timeutil.FormatDate(date)).Scan(
		&roster.ScheduledStart,
		&roster.ScheduledEnd,
		&roster.Location,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query roster: %w", err)
	}
	return roster, nil
}
