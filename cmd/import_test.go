package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"attendly/importer"
)

func TestResolveReconcileMode(t *testing.T) {
	tests := []struct {
		name          string
		mode          string
		configDefault bool
		want          bool
		wantErr       bool
	}{
		{name: "auto true", mode: "auto", configDefault: true, want: true},
		{name: "auto false", mode: "auto", configDefault: false, want: false},
		{name: "empty uses config", mode: "", configDefault: true, want: true},
		{name: "on", mode: "on", configDefault: false, want: true},
		{name: "off", mode: "off", configDefault: true, want: false},
		{name: "yes alias", mode: "yes", configDefault: false, want: true},
		{name: "no alias", mode: "no", configDefault: true, want: false},
		{name: "invalid", mode: "maybe", configDefault: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveReconcileMode(tt.mode, tt.configDefault)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected value: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImportHolidays_MixesCalendarAndTabularFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	calendar := filepath.Join(dir, "holidays-2024.json")
	if err := os.WriteFile(calendar, []byte(`{"year": 2024, "holidays": [{"date": "2024-01-01", "name": "New Year"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	list := filepath.Join(dir, "extra.csv")
	if err := os.WriteFile(list, []byte("date,name\n2024-03-06,Founders Day\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, result, err := importHolidays([]string{calendar, list}, importer.Options{Year: 2024, Location: time.UTC})
	if err != nil {
		t.Fatalf("import holidays: %v", err)
	}
	if len(records) != 2 || records[0].Name != "New Year" || records[1].Name != "Founders Day" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if result.FilesProcessed != 2 || result.RowsMapped != 2 {
		t.Fatalf("unexpected counters: %+v", result)
	}

	if _, _, err := importHolidays([]string{calendar}, importer.Options{Year: 2025, Location: time.UTC}); err == nil {
		t.Fatalf("expected year mismatch to be rejected")
	}
}

func TestSplitCalendarPaths(t *testing.T) {
	t.Parallel()

	calendars, tabular := splitCalendarPaths([]string{"a.json", "b.CSV", "c.JSON"}, "")
	if len(calendars) != 2 || len(tabular) != 1 {
		t.Fatalf("unexpected split: %v %v", calendars, tabular)
	}

	calendars, tabular = splitCalendarPaths([]string{"a.json"}, "csv")
	if len(calendars) != 0 || len(tabular) != 1 {
		t.Fatalf("explicit format must route json paths through the importer: %v %v", calendars, tabular)
	}
}
