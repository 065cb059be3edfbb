package importer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"attendly/config"
)

func TestCSVReader_DetectsDelimiterAndDropsBOM(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "comma", content: "Employee ID,Date,Clock Time,In/Out\nE1,2024-03-04,08:58,I\n"},
		{name: "semicolon with bom", content: "\ufeffEmployee ID;Date;Clock Time;In/Out\r\nE1;2024-03-04;08:58;I\r\n"},
		{name: "tab", content: "Employee ID\tDate\tClock Time\tIn/Out\nE1\t2024-03-04\t08:58\tI\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, dir, tc.name+".csv", tc.content)

			records, err := (&CSVReader{}).Read(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			record := records[0]
			if record.RowNumber != 2 || record.Get("employee_id") != "E1" || record.Get("clock_time") != "08:58" || record.Get("in_out") != "I" {
				t.Fatalf("unexpected record: %+v", record)
			}
		})
	}
}

func TestCSVReader_RejectsEmptyFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "empty.csv", "")
	if _, err := (&CSVReader{}).Read(path); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestRecordGet_FirstColumnWinsAndEmptyAliasFallsThrough(t *testing.T) {
	t.Parallel()

	head := newHeader([]string{"Date", "Punch Time", "date", "Clock_Time"})
	record := head.record(2, []string{"2024-03-04", "", "2024-03-05", "09:10"})

	if got := record.Get("date"); got != "2024-03-04" {
		t.Fatalf("expected first date column, got %q", got)
	}
	if got := record.Get("punch_time", "clock_time"); got != "09:10" {
		t.Fatalf("expected empty alias to fall through, got %q", got)
	}
}

func writeWorkbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	file := excelize.NewFile()
	defaultSheet := file.GetSheetName(0)
	for name, rows := range sheets {
		if _, err := file.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := file.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	if _, exists := sheets[defaultSheet]; !exists {
		if err := file.DeleteSheet(defaultSheet); err != nil {
			t.Fatal(err)
		}
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = file.Close()
}

func TestImportRosters_UsesRuleSheetAndSkipsTitleRows(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "plan-2024-03.xlsx")

	writeWorkbook(t, path, map[string][][]any{
		"Notes": {
			{"Planning notes"},
		},
		"Shifts": {
			{"Roster March 2024"},
			{},
			{"Employee ID", "Date", "Scheduled Start", "Scheduled End"},
			{"E1", "2024-03-04", "22:00", "30:00"},
		},
	})

	rules := []config.ImportRule{{Name: "plan", Kind: "roster", FileTemplate: "plan-*.xlsx", Sheet: "Shifts"}}
	result, err := ImportRosters([]string{path}, Options{Rules: rules, Location: time.UTC})
	if err != nil {
		t.Fatalf("import rosters: %v", err)
	}
	if len(result.Rosters) != 1 || result.Rosters[0].EmployeeID != "E1" || result.Rosters[0].ScheduledEnd != "30:00" {
		t.Fatalf("unexpected rosters: %+v", result.Rosters)
	}

	missing := []config.ImportRule{{Name: "plan", Kind: "roster", FileTemplate: "plan-*.xlsx", Sheet: "Rota"}}
	if _, err := ImportRosters([]string{path}, Options{Rules: missing, Location: time.UTC}); err == nil {
		t.Fatalf("expected missing sheet to fail")
	}
}
