package importer

import (
	"testing"
	"time"
)

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "09:10", want: "09:10"},
		{name: "single digit hour", input: "9:10", want: "09:10"},
		{name: "compact", input: "2330", want: "23:30"},
		{name: "seconds dropped", input: "17:45:59", want: "17:45"},
		{name: "extended", input: "26:15", want: "26:15"},
		{name: "beyond extended range", input: "33:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseClockTime(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"2024-03-04", "2024/03/04", "04.03.2024", "2024-03-04 08:15:00"} {
		got, err := parseDate(input, time.UTC)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got.Format("2006-01-02 15:04") != "2024-03-04 00:00" {
			t.Fatalf("parse %q: got %s", input, got)
		}
	}

	if _, err := parseDate("03/04/2024", time.UTC); err == nil {
		t.Fatalf("expected ambiguous layout to be rejected")
	}
}

func TestParseDirectionAndDayOffset(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]string{"IN": "in", "o": "out", "Check-Out": "out", "": "", "?": ""} {
		if got := parseDirection(input); got != want {
			t.Fatalf("parseDirection(%q) = %q, want %q", input, got, want)
		}
	}

	for input, want := range map[string]int{"": 0, "no": 0, "1": 1, "Yes": 1} {
		got, err := parseDayOffset(input)
		if err != nil || got != want {
			t.Fatalf("parseDayOffset(%q) = %d, %v", input, got, err)
		}
	}
	if _, err := parseDayOffset("2"); err == nil {
		t.Fatalf("expected error for unsupported offset")
	}
}
