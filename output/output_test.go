package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"attendly/attendance"
	"attendly/leave"
)

func sampleRemarks() []attendance.Remark {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return []attendance.Remark{
		{EmployeeID: "E2", Date: monday, Statuses: []string{"absent"}, Remarks: "Absent"},
		{EmployeeID: "E1", Date: monday, Statuses: []string{"late", "overtime"}, LateMinutes: 10, OvertimeMinutes: 15, FirstValid: "09:10", LastValid: "02:15", Remarks: "Late 10 min; Overtime 15 min"},
		{EmployeeID: "E1", Date: monday.AddDate(0, 0, 1), Statuses: []string{"early_leave"}, EarlyMinutes: 30, FirstValid: "08:55", LastValid: "17:30", Remarks: "Early leave 30 min"},
	}
}

func TestCSVWriter_WritesAttendanceTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attendance.csv")
	writer, err := WriterForFormat("CSV", Options{})
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, AttendanceTable(sampleRemarks())); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	want := []string{"E1", "2024-03-04", "09:10", "02:15", "late,overtime", "10", "0", "15", "Late 10 min; Overtime 15 min"}
	for i := range want {
		if rows[2][i] != want[i] {
			t.Fatalf("column %d: want %q, got %q", i, want[i], rows[2][i])
		}
	}
}

func TestExcelWriter_WritesLeaveTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leave.xlsx")
	requests := []leave.Request{{
		ID:           7,
		EmployeeID:   "E1",
		LeaveType:    "annual",
		StartDate:    time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		StartSession: leave.SessionAM,
		EndSession:   leave.SessionPM,
		NetDays:      4,
		Status:       leave.StatusPending,
		CreatedAt:    time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
	}}

	writer, err := WriterForFormat("xlsx", Options{})
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, LeaveTable(requests)); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()

	if file.GetSheetName(0) != "Leave" {
		t.Fatalf("expected sheet Leave, got %q", file.GetSheetName(0))
	}
	rows, err := file.GetRows("Leave")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "7" || rows[1][4] != "AM" || rows[1][7] != "4.0" || rows[1][8] != "pending" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestWriterForFormat_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("pdf", Options{}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCSVWriter_SemicolonWithBOM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attendance.csv")
	writer, err := WriterForFormat("csv", Options{Delimiter: "semicolon", BOM: true})
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, AttendanceTable(sampleRemarks())); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !bytes.HasPrefix(content, utf8BOM) {
		t.Fatalf("expected utf-8 bom")
	}
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 || rows[2][0] != "E1" || rows[2][8] != "Late 10 min; Overtime 15 min" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestParseDelimiter(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]rune{"": ',', ",": ',', "Semicolon": ';', ";": ';', "tab": '\t', "\t": '\t'} {
		got, err := ParseDelimiter(input)
		if err != nil || got != want {
			t.Fatalf("ParseDelimiter(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseDelimiter("|"); err == nil {
		t.Fatalf("expected unsupported delimiter error")
	}
}

func TestBuildEmployeeSummaries(t *testing.T) {
	t.Parallel()

	summaries := BuildEmployeeSummaries(sampleRemarks())
	if len(summaries) != 2 || summaries[0].EmployeeID != "E1" {
		t.Fatalf("expected sorted summaries for 2 employees, got %+v", summaries)
	}

	e1 := summaries[0]
	if e1.Days != 2 || e1.LateDays != 1 || e1.OvertimeDays != 1 || e1.EarlyLeaveDays != 1 {
		t.Fatalf("unexpected day counts: %+v", e1)
	}
	if e1.LateMinutes != 10 || e1.EarlyMinutes != 30 || e1.OvertimeMinutes != 15 {
		t.Fatalf("unexpected minute totals: %+v", e1)
	}
	if summaries[1].AbsentDays != 1 {
		t.Fatalf("expected E2 absent once, got %+v", summaries[1])
	}

	table := SummaryTable(summaries)
	if len(table.Rows) != 2 || len(table.Rows[0]) != len(table.Headers) {
		t.Fatalf("unexpected summary table: %+v", table)
	}
}
