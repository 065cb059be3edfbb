// Package attendance models raw clock punches for one employee-day and the
// curation operations applied to them before attendance is computed.
package attendance

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendly/internal/timeutil"
)

var (
	ErrInvalidTimeFormat = timeutil.ErrInvalidTimeFormat
	ErrEventNotFound     = errors.New("clock event not found")
	ErrPersistedEvent    = errors.New("persisted clock events cannot be discarded")
)

// DefaultValidPunches is how many punches the quick-correction heuristic keeps.
const DefaultValidPunches = 4

type Source string

const (
	SourceImported Source = "imported"
	SourceManual   Source = "manual"
)

// ClockEvent is one punch. ID is 0 until the event has been persisted; drafts
// carry a DraftID instead.
type ClockEvent struct {
	ID         int64     `json:"id,omitempty"`
	DraftID    string    `json:"draftId,omitempty"`
	EmployeeID string    `json:"employeeId"`
	BranchCode string    `json:"branchCode,omitempty"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	DayOffset  int       `json:"dayOffset,omitempty"`
	Direction  string    `json:"direction,omitempty"`
	Valid      bool      `json:"valid"`
	Source     Source    `json:"source"`
	SourceFile string    `json:"sourceFile,omitempty"`
}

func (e ClockEvent) Persisted() bool {
	return e.ID > 0
}

func (e ClockEvent) Key() Key {
	if e.Persisted() {
		return KeyForID(e.ID)
	}
	return KeyForDraft(e.DraftID)
}

// Minutes parses Time, ignoring DayOffset.
func (e ClockEvent) Minutes() (int, error) {
	return timeutil.ParseExtendedTime(e.Time)
}

// EffectiveMinutes parses Time and applies the explicit DayOffset.
func (e ClockEvent) EffectiveMinutes() (int, error) {
	minutes, err := e.Minutes()
	if err != nil {
		return 0, err
	}
	return timeutil.WithDayOffset(minutes, e.DayOffset), nil
}

// Key identifies an event inside a Day: "id:<n>" once persisted, "draft:<uuid>"
// before.
type Key string

func KeyForID(id int64) Key {
	return Key("id:" + strconv.FormatInt(id, 10))
}

func KeyForDraft(draftID string) Key {
	return Key("draft:" + draftID)
}

func ParseKey(value string) (Key, error) {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(value, "id:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(value, "id:"), 10, 64)
		if err != nil || id <= 0 {
			return "", fmt.Errorf("invalid event key %q", value)
		}
		return KeyForID(id), nil
	case strings.HasPrefix(value, "draft:") && len(value) > len("draft:"):
		return Key(value), nil
	default:
		return "", fmt.Errorf("invalid event key %q (expected id:<n> or draft:<id>)", value)
	}
}

func (k Key) IsDraft() bool {
	return strings.HasPrefix(string(k), "draft:")
}

// AutoSelectEarliestN marks the n events with the smallest textual time as
// valid and every other event as invalid. Devices that record duplicate
// punches are corrected this way. The input is not modified.
func AutoSelectEarliestN(events []ClockEvent, n int) []ClockEvent {
	out := append([]ClockEvent(nil), events...)
	if n < 0 {
		n = 0
	}

	indexes := make([]int, len(out))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return sortableTime(out[indexes[a]].Time) < sortableTime(out[indexes[b]].Time)
	})

	for rank, idx := range indexes {
		out[idx].Valid = rank < n
	}
	return out
}

// FirstAndLastValid returns the earliest and latest valid events by parsed
// time, with the explicit day offset applied. ok is false when no valid event
// has a parsable time.
func FirstAndLastValid(events []ClockEvent) (first, last ClockEvent, ok bool) {
	return FirstAndLastValidBy(events, ClockEvent.EffectiveMinutes)
}

// FirstAndLastValidBy is FirstAndLastValid with a caller-supplied ordering.
// Events whose time cannot be resolved are skipped.
func FirstAndLastValidBy(events []ClockEvent, minutesOf func(ClockEvent) (int, error)) (first, last ClockEvent, ok bool) {
	firstMinutes, lastMinutes := 0, 0
	for _, event := range events {
		if !event.Valid {
			continue
		}
		minutes, err := minutesOf(event)
		if err != nil {
			continue
		}
		if !ok {
			first, last = event, event
			firstMinutes, lastMinutes = minutes, minutes
			ok = true
			continue
		}
		if minutes < firstMinutes {
			first, firstMinutes = event, minutes
		}
		if minutes > lastMinutes {
			last, lastMinutes = event, minutes
		}
	}
	return first, last, ok
}

// ValidEvents filters events down to the valid ones, preserving order.
func ValidEvents(events []ClockEvent) []ClockEvent {
	out := make([]ClockEvent, 0, len(events))
	for _, event := range events {
		if event.Valid {
			out = append(out, event)
		}
	}
	return out
}

func sortableTime(text string) string {
	if normalized, err := timeutil.NormalizeExtendedTime(text); err == nil {
		return normalized
	}
	return strings.TrimSpace(text)
}
