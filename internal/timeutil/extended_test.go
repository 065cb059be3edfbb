package timeutil

import (
	"errors"
	"testing"
)

func TestParseExtendedTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "regular", input: "09:10", want: 550},
		{name: "single digit hour", input: "9:05", want: 545},
		{name: "compact", input: "2330", want: 1410},
		{name: "next day", input: "26:00", want: 1560},
		{name: "upper bound", input: "32:59", want: 1979},
		{name: "surrounding spaces", input: " 17:30 ", want: 1050},
		{name: "hour too large", input: "33:00", wantErr: true},
		{name: "compact hour too large", input: "3300", wantErr: true},
		{name: "minute too large", input: "12:60", wantErr: true},
		{name: "missing minutes", input: "12:", wantErr: true},
		{name: "seconds", input: "12:00:00", wantErr: true},
		{name: "three digits", input: "930", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseExtendedTime(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				if !errors.Is(err, ErrInvalidTimeFormat) {
					t.Fatalf("expected ErrInvalidTimeFormat for %q, got %v", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected minutes for %q: want %d, got %d", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseExtendedTime_CompactEqualsColonForm(t *testing.T) {
	t.Parallel()

	compact, err := ParseExtendedTime("2330")
	if err != nil {
		t.Fatalf("parse compact: %v", err)
	}
	colon, err := ParseExtendedTime("23:30")
	if err != nil {
		t.Fatalf("parse colon: %v", err)
	}
	if compact != colon {
		t.Fatalf("expected identical results, got %d and %d", compact, colon)
	}
}

func TestNormalizeExtendedTime(t *testing.T) {
	t.Parallel()

	got, err := NormalizeExtendedTime("9:05")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "09:05" {
		t.Fatalf("expected 09:05, got %q", got)
	}
	got, err = NormalizeExtendedTime("0215")
	if err != nil {
		t.Fatalf("normalize compact: %v", err)
	}
	if got != "02:15" {
		t.Fatalf("expected 02:15, got %q", got)
	}
}

func TestFormatExtendedTime(t *testing.T) {
	t.Parallel()

	if got := FormatExtendedTime(1575); got != "26:15" {
		t.Fatalf("expected 26:15, got %q", got)
	}
	if got := FormatExtendedTime(5); got != "00:05" {
		t.Fatalf("expected 00:05, got %q", got)
	}
}

func TestCompareAcrossMidnight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		anchorHour int
		candidate  int
		want       int
	}{
		{name: "early morning after evening anchor", anchorHour: 22, candidate: 2*60 + 15, want: 26*60 + 15},
		{name: "early morning after morning anchor", anchorHour: 9, candidate: 2*60 + 15, want: 26*60 + 15},
		{name: "same hour stays", anchorHour: 9, candidate: 9*60 + 10, want: 9*60 + 10},
		{name: "later hour stays", anchorHour: 9, candidate: 17 * 60, want: 17 * 60},
		{name: "afternoon never wraps", anchorHour: 22, candidate: 13 * 60, want: 13 * 60},
		{name: "extended candidate stays", anchorHour: 9, candidate: 26 * 60, want: 26 * 60},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CompareAcrossMidnight(tc.anchorHour, tc.candidate); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWithDayOffset(t *testing.T) {
	t.Parallel()

	if got := WithDayOffset(135, 1); got != 1575 {
		t.Fatalf("expected 1575, got %d", got)
	}
	if got := WithDayOffset(135, 0); got != 135 {
		t.Fatalf("expected 135, got %d", got)
	}
}
