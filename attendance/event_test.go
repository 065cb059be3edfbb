package attendance

import (
	"sort"
	"testing"
)

func punches(times ...string) []ClockEvent {
	events := make([]ClockEvent, 0, len(times))
	for i, text := range times {
		events = append(events, ClockEvent{ID: int64(i + 1), EmployeeID: "E1", Time: text, Valid: true, Source: SourceImported})
	}
	return events
}

func TestAutoSelectEarliestN_KeepsExactlyNSmallest(t *testing.T) {
	t.Parallel()

	events := punches("17:31", "08:55", "17:30", "08:56", "12:01", "12:00")
	selected := AutoSelectEarliestN(events, DefaultValidPunches)

	valid := make([]string, 0, 4)
	for _, event := range selected {
		if event.Valid {
			valid = append(valid, event.Time)
		}
	}
	sort.Strings(valid)

	want := []string{"08:55", "08:56", "12:00", "12:01"}
	if len(valid) != len(want) {
		t.Fatalf("expected %d valid events, got %d (%v)", len(want), len(valid), valid)
	}
	for i := range want {
		if valid[i] != want[i] {
			t.Fatalf("unexpected valid set: want %v, got %v", want, valid)
		}
	}

	if !events[0].Valid || !events[2].Valid {
		t.Fatalf("input slice must not be modified")
	}
}

func TestAutoSelectEarliestN_OrderAndEdgeCases(t *testing.T) {
	t.Parallel()

	selected := AutoSelectEarliestN(punches("9:00", "10:00", "08:00"), 2)
	if !selected[0].Valid || selected[1].Valid || !selected[2].Valid {
		t.Fatalf("expected zero-padded comparison to pick 08:00 and 9:00, got %+v", selected)
	}

	fewer := AutoSelectEarliestN(punches("09:00", "18:00"), 4)
	for _, event := range fewer {
		if !event.Valid {
			t.Fatalf("expected all events valid when fewer than n, got %+v", fewer)
		}
	}

	none := AutoSelectEarliestN(punches("09:00", "18:00"), 0)
	for _, event := range none {
		if event.Valid {
			t.Fatalf("expected all events invalid for n=0, got %+v", none)
		}
	}

	ties := AutoSelectEarliestN(punches("09:00", "09:00", "09:00"), 2)
	if !ties[0].Valid || !ties[1].Valid || ties[2].Valid {
		t.Fatalf("expected stable order among equal times, got %+v", ties)
	}
}

func TestFirstAndLastValid(t *testing.T) {
	t.Parallel()

	events := punches("12:00", "08:55", "17:30", "07:00", "bogus")
	events[3].Valid = false

	first, last, ok := FirstAndLastValid(events)
	if !ok {
		t.Fatalf("expected valid events")
	}
	if first.Time != "08:55" || last.Time != "17:30" {
		t.Fatalf("unexpected first/last: %s / %s", first.Time, last.Time)
	}
}

func TestFirstAndLastValid_UsesDayOffset(t *testing.T) {
	t.Parallel()

	events := punches("22:00", "02:15")
	events[1].DayOffset = 1

	first, last, ok := FirstAndLastValid(events)
	if !ok {
		t.Fatalf("expected valid events")
	}
	if first.Time != "22:00" || last.Time != "02:15" {
		t.Fatalf("unexpected first/last: %s / %s", first.Time, last.Time)
	}
}

func TestFirstAndLastValid_NoneValid(t *testing.T) {
	t.Parallel()

	events := punches("08:00", "17:00")
	for i := range events {
		events[i].Valid = false
	}
	if _, _, ok := FirstAndLastValid(events); ok {
		t.Fatalf("expected no valid events")
	}
	if _, _, ok := FirstAndLastValid(nil); ok {
		t.Fatalf("expected no valid events for nil input")
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Key
		wantErr bool
	}{
		{input: "id:42", want: KeyForID(42)},
		{input: " draft:abc ", want: KeyForDraft("abc")},
		{input: "id:0", wantErr: true},
		{input: "id:x", wantErr: true},
		{input: "draft:", wantErr: true},
		{input: "42", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseKey(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("unexpected key for %q: %q", tc.input, got)
		}
	}
}
