package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"attendly/internal/timeutil"
)

// Day holds every clock event of one employee-day, addressable by Key. Each
// curation action replaces one event by key; nothing is mutated by position.
// Time edits are staged and only land on the events when the day is saved.
type Day struct {
	EmployeeID string
	Date       time.Time

	events   map[Key]ClockEvent
	order    []Key
	loaded   map[int64]ClockEvent
	pending  map[Key]string
	newDraft func() string
}

// ChangeSet lists the three independent persistence operations a curated day
// needs.
type ChangeSet struct {
	Validity map[int64]bool
	Times    map[int64]string
	Creates  []ClockEvent
}

func (c ChangeSet) Empty() bool {
	return len(c.Validity) == 0 && len(c.Times) == 0 && len(c.Creates) == 0
}

// Saver persists a ChangeSet. Each method is one explicit operation.
type Saver interface {
	UpdateClockEventValidity(updates map[int64]bool) (int, error)
	UpdateClockEventTimes(updates map[int64]string) (int, error)
	CreateClockEvents(events []ClockEvent) ([]int64, error)
}

type SaveResult struct {
	ValidityUpdated int
	TimesUpdated    int
	Created         int
}

func NewDay(employeeID string, date time.Time, events []ClockEvent) *Day {
	day := &Day{
		EmployeeID: employeeID,
		Date:       timeutil.StartOfDay(date),
		events:     make(map[Key]ClockEvent, len(events)),
		order:      make([]Key, 0, len(events)),
		loaded:     make(map[int64]ClockEvent, len(events)),
		pending:    make(map[Key]string),
		newDraft:   func() string { return uuid.NewString() },
	}
	for _, event := range events {
		if !event.Persisted() && event.DraftID == "" {
			event.DraftID = day.newDraft()
		}
		key := event.Key()
		if _, exists := day.events[key]; exists {
			continue
		}
		day.events[key] = event
		day.order = append(day.order, key)
		if event.Persisted() {
			day.loaded[event.ID] = event
		}
	}
	return day
}

// Events returns the current events in insertion order. Staged time edits are
// not applied.
func (d *Day) Events() []ClockEvent {
	out := make([]ClockEvent, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.events[key])
	}
	return out
}

func (d *Day) Get(key Key) (ClockEvent, bool) {
	event, ok := d.events[key]
	return event, ok
}

// SetValidity sets the validity of the event under key. Unknown keys are a
// no-op.
func (d *Day) SetValidity(key Key, valid bool) {
	event, ok := d.events[key]
	if !ok {
		return
	}
	event.Valid = valid
	d.events[key] = event
}

// UpsertTime stages a new time text for the event under key. The text is
// validated now and applied on Save.
func (d *Day) UpsertTime(key Key, text string) error {
	event, ok := d.events[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, key)
	}
	normalized, err := timeutil.NormalizeExtendedTime(text)
	if err != nil {
		return err
	}
	if normalized == strings.TrimSpace(event.Time) {
		delete(d.pending, key)
		return nil
	}
	d.pending[key] = normalized
	return nil
}

// PendingTime returns the staged time text for key, if any.
func (d *Day) PendingTime(key Key) (string, bool) {
	text, ok := d.pending[key]
	return text, ok
}

// AddDraft adds an unpersisted, valid, manual event and returns its key.
func (d *Day) AddDraft(draft ClockEvent) (Key, error) {
	normalized, err := timeutil.NormalizeExtendedTime(draft.Time)
	if err != nil {
		return "", err
	}

	draft.ID = 0
	draft.DraftID = d.newDraft()
	draft.EmployeeID = d.EmployeeID
	draft.Date = d.Date
	draft.Time = normalized
	draft.Valid = true
	draft.Source = SourceManual

	key := draft.Key()
	d.events[key] = draft
	d.order = append(d.order, key)
	return key, nil
}

// DiscardDraft drops an unpersisted event entirely.
func (d *Day) DiscardDraft(key Key) error {
	event, ok := d.events[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, key)
	}
	if event.Persisted() {
		return fmt.Errorf("%w: %s", ErrPersistedEvent, key)
	}
	d.drop(key)
	return nil
}

// Remove discards a draft, or invalidates a persisted event.
func (d *Day) Remove(key Key) error {
	event, ok := d.events[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, key)
	}
	if event.Persisted() {
		d.SetValidity(key, false)
		return nil
	}
	d.drop(key)
	return nil
}

// AutoSelectEarliestN keeps the n textually earliest punches valid.
func (d *Day) AutoSelectEarliestN(n int) {
	selected := AutoSelectEarliestN(d.Events(), n)
	for _, event := range selected {
		d.events[event.Key()] = event
	}
}

func (d *Day) FirstAndLastValid() (first, last ClockEvent, ok bool) {
	return FirstAndLastValid(d.Events())
}

// Changes diffs the day against the state it was loaded with.
func (d *Day) Changes() ChangeSet {
	changes := ChangeSet{
		Validity: make(map[int64]bool),
		Times:    make(map[int64]string),
		Creates:  make([]ClockEvent, 0),
	}

	for _, key := range d.order {
		event := d.events[key]
		if !event.Persisted() {
			if !event.Valid {
				continue
			}
			if text, ok := d.pending[key]; ok {
				event.Time = text
			}
			changes.Creates = append(changes.Creates, event)
			continue
		}

		original := d.loaded[event.ID]
		if original.Valid != event.Valid {
			changes.Validity[event.ID] = event.Valid
		}
		if text, ok := d.pending[key]; ok && text != original.Time {
			changes.Times[event.ID] = text
		}
	}

	return changes
}

// Save issues the validity, time and create operations in that order and then
// folds the result back into the day: staged times are applied and created
// drafts are re-keyed by their new ids.
func (d *Day) Save(saver Saver) (SaveResult, error) {
	changes := d.Changes()
	result := SaveResult{}
	if changes.Empty() {
		return result, nil
	}

	if len(changes.Validity) > 0 {
		updated, err := saver.UpdateClockEventValidity(changes.Validity)
		if err != nil {
			return result, fmt.Errorf("save clock event validity: %w", err)
		}
		result.ValidityUpdated = updated
	}

	if len(changes.Times) > 0 {
		updated, err := saver.UpdateClockEventTimes(changes.Times)
		if err != nil {
			return result, fmt.Errorf("save clock event times: %w", err)
		}
		result.TimesUpdated = updated
	}

	var createdIDs []int64
	if len(changes.Creates) > 0 {
		ids, err := saver.CreateClockEvents(changes.Creates)
		if err != nil {
			return result, fmt.Errorf("create clock events: %w", err)
		}
		if len(ids) != len(changes.Creates) {
			return result, fmt.Errorf("create clock events: expected %d ids, got %d", len(changes.Creates), len(ids))
		}
		createdIDs = ids
		result.Created = len(ids)
	}

	d.applySaved(changes, createdIDs)
	return result, nil
}

func (d *Day) applySaved(changes ChangeSet, createdIDs []int64) {
	for id, text := range changes.Times {
		key := KeyForID(id)
		event := d.events[key]
		event.Time = text
		d.events[key] = event
	}

	for i, created := range changes.Creates {
		oldKey := KeyForDraft(created.DraftID)
		created.ID = createdIDs[i]
		created.DraftID = ""
		newKey := created.Key()

		delete(d.events, oldKey)
		delete(d.pending, oldKey)
		d.events[newKey] = created
		for j, key := range d.order {
			if key == oldKey {
				d.order[j] = newKey
				break
			}
		}
	}

	for key, text := range d.pending {
		if event, ok := d.events[key]; ok && !event.Persisted() {
			event.Time = text
			d.events[key] = event
		}
	}

	d.pending = make(map[Key]string)
	d.loaded = make(map[int64]ClockEvent, len(d.events))
	for _, event := range d.events {
		if event.Persisted() {
			d.loaded[event.ID] = event
		}
	}
}

func (d *Day) drop(key Key) {
	delete(d.events, key)
	delete(d.pending, key)
	for i, existing := range d.order {
		if existing == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}
