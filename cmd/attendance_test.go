package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"attendly/attendance"
	"attendly/reconcile"
	"attendly/storage"
)

func TestLookupKey(t *testing.T) {
	t.Parallel()

	day := attendance.NewDay("E1", time.Now(), []attendance.ClockEvent{{ID: 3, EmployeeID: "E1", Time: "09:00", Valid: true}})

	if key, err := lookupKey(day, " id:3 "); err != nil || key != attendance.KeyForID(3) {
		t.Fatalf("expected id:3, got %q %v", key, err)
	}
	if _, err := lookupKey(day, "id:4"); !errors.Is(err, attendance.ErrEventNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := lookupKey(day, "3"); err == nil {
		t.Fatalf("expected malformed key error")
	}
}

func TestPrintDay(t *testing.T) {
	t.Parallel()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "cmd_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	if _, err := store.UpsertRosters([]attendance.RosterWindow{{EmployeeID: "E1", Date: date, ScheduledStart: "09:00", ScheduledEnd: "26:00"}}); err != nil {
		t.Fatalf("upsert roster: %v", err)
	}
	day := attendance.NewDay("E1", date, []attendance.ClockEvent{
		{ID: 1, EmployeeID: "E1", Date: date, Time: "09:10", Valid: true, Source: attendance.SourceImported},
		{ID: 2, EmployeeID: "E1", Date: date, Time: "02:15", Valid: true, Source: attendance.SourceImported},
	})

	var out bytes.Buffer
	if err := printDay(&out, store, day, reconcile.DefaultOptions()); err != nil {
		t.Fatalf("print day: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Roster: 09:00 - 26:00") || !strings.Contains(text, "id:2") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if !strings.Contains(text, "Remarks: Late 10 min; Overtime 15 min") {
		t.Fatalf("expected cross-midnight remark, got:\n%s", text)
	}
}
