package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2024, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2024, 3, 1, 18, 30, 0, 0, time.Local)
	c := time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	t.Parallel()

	input := time.Date(2024, 3, 1, 13, 25, 0, 0, time.Local)
	if got := MinutesFromMidnight(input); got != 805 {
		t.Fatalf("expected 805, got %d", got)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 2, 23, 0, 0, 0, time.Local)
	if got := DaysBetween(start, end); got != 4 {
		t.Fatalf("expected 4 days across leap day, got %d", got)
	}
	if got := DaysBetween(start, start); got != 0 {
		t.Fatalf("expected 0 for same day, got %d", got)
	}
}

func TestIsWeekend(t *testing.T) {
	t.Parallel()

	saturday := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(saturday) {
		t.Fatalf("expected %v to be weekend", saturday)
	}
	if IsWeekend(monday) {
		t.Fatalf("expected %v to be a weekday", monday)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate(" 2024-03-04 ", time.UTC)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if FormatDate(got) != "2024-03-04" {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, err := ParseDate("04.03.2024", time.UTC); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}
