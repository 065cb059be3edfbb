// Package holiday holds public holiday records sourced from an external
// calendar. Records are read-only facts: nothing in this module creates or
// edits them beyond loading a calendar.
package holiday

import (
	"sort"
	"time"

	"attendly/internal/timeutil"
)

// Record is one public holiday.
type Record struct {
	Date time.Time
	Name string
}

// Key is the plain ISO date the record is indexed by.
func (r Record) Key() string {
	return timeutil.FormatDate(r.Date)
}

// Source returns every holiday whose date lies within [start, end].
type Source interface {
	ListHolidays(start, end time.Time) ([]Record, error)
}

// Set is a collection of holidays keyed by calendar date. Two records on the
// same date count once; the first name wins.
type Set struct {
	byDate map[string]Record
}

func NewSet(records []Record) Set {
	set := Set{byDate: make(map[string]Record, len(records))}
	for _, record := range records {
		key := record.Key()
		if _, exists := set.byDate[key]; exists {
			continue
		}
		set.byDate[key] = record
	}
	return set
}

func (s Set) Len() int {
	return len(s.byDate)
}

func (s Set) Contains(date time.Time) bool {
	_, ok := s.byDate[timeutil.FormatDate(date)]
	return ok
}

// Within returns the holidays inside [start, end] ordered by date.
func (s Set) Within(start, end time.Time) []Record {
	from := timeutil.FormatDate(start)
	to := timeutil.FormatDate(end)

	out := make([]Record, 0, len(s.byDate))
	for key, record := range s.byDate {
		if key < from || key > to {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Records returns all holidays ordered by date.
func (s Set) Records() []Record {
	out := make([]Record, 0, len(s.byDate))
	for _, record := range s.byDate {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// StaticSource serves holidays from memory.
type StaticSource struct {
	set Set
}

func NewStaticSource(records []Record) *StaticSource {
	return &StaticSource{set: NewSet(records)}
}

func (s *StaticSource) ListHolidays(start, end time.Time) ([]Record, error) {
	return s.set.Within(start, end), nil
}
