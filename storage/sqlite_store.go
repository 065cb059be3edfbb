package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"attendly/internal/timeutil"
)

type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, loc: time.Local}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS clock_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id TEXT NOT NULL,
	branch_code TEXT NOT NULL DEFAULT '',
	event_date TEXT NOT NULL,
	clock_time TEXT NOT NULL,
	direction TEXT NOT NULL DEFAULT '',
	is_valid INTEGER NOT NULL DEFAULT 1,
	source TEXT NOT NULL,
	source_file TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_clock_events_day ON clock_events(employee_id, event_date);

CREATE TABLE IF NOT EXISTS holidays (
	holiday_date TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rosters (
	employee_id TEXT NOT NULL,
	roster_date TEXT NOT NULL,
	scheduled_start TEXT NOT NULL DEFAULT '',
	scheduled_end TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	PRIMARY KEY(employee_id, roster_date)
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id TEXT NOT NULL,
	leave_type TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	start_session TEXT NOT NULL,
	end_session TEXT NOT NULL,
	include_weekends INTEGER NOT NULL,
	exclude_holidays INTEGER NOT NULL,
	net_days REAL NOT NULL CHECK(net_days >= 0),
	reason TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance_remarks (
	employee_id TEXT NOT NULL,
	remark_date TEXT NOT NULL,
	statuses TEXT NOT NULL,
	late_minutes INTEGER NOT NULL DEFAULT 0,
	early_minutes INTEGER NOT NULL DEFAULT 0,
	overtime_minutes INTEGER NOT NULL DEFAULT 0,
	first_valid TEXT NOT NULL DEFAULT '',
	last_valid TEXT NOT NULL DEFAULT '',
	remarks TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(employee_id, remark_date)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	// day_offset was added after the first release; older databases lack it.
	if err := s.ensureColumn("clock_events", "day_offset", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}

	// The import index keys on day_offset so a next-day punch never collides
	// with the same clock time on the event date.
	const importIndex = `
DROP INDEX IF EXISTS idx_clock_events_import;
CREATE UNIQUE INDEX IF NOT EXISTS idx_clock_events_import_offset
	ON clock_events(employee_id, event_date, clock_time, day_offset, direction, source_file)
	WHERE source = 'imported';`
	if _, err := s.db.Exec(importIndex); err != nil {
		return fmt.Errorf("create import index: %w", err)
	}

	return nil
}

func (s *SQLiteStore) ensureColumn(table, column, definition string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			found = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	if found {
		return nil
	}

	if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s column: %w", column, err)
	}

	return nil
}

func (s *SQLiteStore) parseDate(raw string) (time.Time, error) {
	return timeutil.ParseDate(raw, s.loc)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// Stats counts the stored rows per kind of record.
type Stats struct {
	ClockEvents   int
	Rosters       int
	Holidays      int
	LeaveRequests int
	Remarks       int
}

func (s *SQLiteStore) Stats() (Stats, error) {
	stats := Stats{}
	targets := []struct {
		table string
		dst   *int
	}{
		{table: "clock_events", dst: &stats.ClockEvents},
		{table: "rosters", dst: &stats.Rosters},
		{table: "holidays", dst: &stats.Holidays},
		{table: "leave_requests", dst: &stats.LeaveRequests},
		{table: "attendance_remarks", dst: &stats.Remarks},
	}
	for _, target := range targets {
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + target.table).Scan(target.dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", target.table, err)
		}
	}
	return stats, nil
}
