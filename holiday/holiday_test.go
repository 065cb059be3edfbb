package holiday

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func TestSet_DeduplicatesByDate(t *testing.T) {
	t.Parallel()

	set := NewSet([]Record{
		{Date: day(t, "2024-03-06"), Name: "first"},
		{Date: day(t, "2024-03-06").Add(10 * time.Hour), Name: "second"},
		{Date: day(t, "2024-12-25"), Name: "xmas"},
	})

	if set.Len() != 2 {
		t.Fatalf("expected 2 distinct holidays, got %d", set.Len())
	}
	if !set.Contains(day(t, "2024-03-06")) {
		t.Fatalf("expected 2024-03-06 to be a holiday")
	}
	records := set.Records()
	if records[0].Name != "first" {
		t.Fatalf("expected first record to win, got %q", records[0].Name)
	}
}

func TestSet_WithinIsInclusiveAndSorted(t *testing.T) {
	t.Parallel()

	set := NewSet([]Record{
		{Date: day(t, "2024-03-08")},
		{Date: day(t, "2024-03-04")},
		{Date: day(t, "2024-03-09")},
		{Date: day(t, "2024-03-03")},
	})

	got := set.Within(day(t, "2024-03-04"), day(t, "2024-03-08"))
	if len(got) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(got))
	}
	if got[0].Key() != "2024-03-04" || got[1].Key() != "2024-03-08" {
		t.Fatalf("unexpected holidays: %+v", got)
	}
}

func TestStaticSource_ListHolidays(t *testing.T) {
	t.Parallel()

	source := NewStaticSource([]Record{{Date: day(t, "2024-03-06")}})
	got, err := source.ListHolidays(day(t, "2024-03-01"), day(t, "2024-03-31"))
	if err != nil {
		t.Fatalf("list holidays: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 holiday, got %d", len(got))
	}
}

func TestParseCalendarJSON(t *testing.T) {
	t.Parallel()

	content := []byte(`{"year": 2024, "holidays": [
		{"date": "2024-01-01", "name": " New Year "},
		{"date": "2024-12-25", "name": "Christmas"}
	]}`)

	records, err := ParseCalendarJSON(content, 2024, time.UTC)
	if err != nil {
		t.Fatalf("parse calendar: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "New Year" {
		t.Fatalf("expected trimmed name, got %q", records[0].Name)
	}
}

func TestParseCalendarJSON_RejectsYearMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		year    int
		wantErr string
	}{
		{name: "missing year", content: `{"year": 2024, "holidays": []}`, year: 0, wantErr: "required"},
		{name: "header mismatch", content: `{"year": 2023, "holidays": []}`, year: 2024, wantErr: "expected 2024"},
		{name: "entry outside year", content: `{"year": 2024, "holidays": [{"date": "2025-01-01"}]}`, year: 2024, wantErr: "outside year"},
		{name: "bad date", content: `{"year": 2024, "holidays": [{"date": "01.01.2024"}]}`, year: 2024, wantErr: "holidays[0]"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCalendarJSON([]byte(tc.content), tc.year, time.UTC)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadCalendarJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "holidays-2024.json")
	if err := os.WriteFile(path, []byte(`{"year": 2024, "holidays": [{"date": "2024-03-06", "name": "Founding Day"}]}`), 0o600); err != nil {
		t.Fatalf("write calendar: %v", err)
	}

	records, err := LoadCalendarJSON(path, 2024, time.UTC)
	if err != nil {
		t.Fatalf("load calendar: %v", err)
	}
	if len(records) != 1 || records[0].Key() != "2024-03-06" {
		t.Fatalf("unexpected records: %+v", records)
	}
}
