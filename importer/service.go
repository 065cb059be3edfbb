package importer

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendly/attendance"
	"attendly/config"
	"attendly/holiday"
	"attendly/internal/timeutil"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
}

type ClockResult struct {
	Result
	Events []attendance.ClockEvent
	// DaysCorrected counts employee-days where the punch heuristic
	// invalidated at least one event.
	DaysCorrected int
	// Duplicates counts repeated punches dropped before selection.
	Duplicates int
}

type RosterResult struct {
	Result
	Rosters []attendance.RosterWindow
}

type HolidayResult struct {
	Result
	Holidays []holiday.Record
}

// Options apply to one import run. Format overrides both the matched rule
// and the file extension.
type Options struct {
	Format          string
	Location        *time.Location
	Rules           []config.ImportRule
	MaxValidPunches int
	Year            int
}

// ImportClock reads punch files and keeps only the MaxValidPunches earliest
// punches of each employee-day valid. Repeated punches are dropped first so
// they cannot take a valid slot.
func ImportClock(paths []string, options Options) (*ClockResult, error) {
	mapper := &ClockMapper{Location: options.Location}
	result := &ClockResult{Events: make([]attendance.ClockEvent, 0, 256)}

	err := eachRecord(paths, KindClock, options, &result.Result, func(record Record, path string, rule config.ImportRule) (bool, error) {
		event, ok, err := mapper.Map(record, path)
		if err != nil || !ok {
			return false, err
		}
		if event.BranchCode == "" {
			event.BranchCode = strings.TrimSpace(rule.BranchCode)
		}
		result.Events = append(result.Events, *event)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	maxValid := options.MaxValidPunches
	if maxValid <= 0 {
		maxValid = attendance.DefaultValidPunches
	}
	result.Events, result.Duplicates = dropDuplicatePunches(result.Events)
	result.Events, result.DaysCorrected = selectPerDay(result.Events, maxValid)
	return result, nil
}

func ImportRosters(paths []string, options Options) (*RosterResult, error) {
	mapper := &RosterMapper{Location: options.Location}
	result := &RosterResult{Rosters: make([]attendance.RosterWindow, 0, 64)}

	err := eachRecord(paths, KindRoster, options, &result.Result, func(record Record, _ string, _ config.ImportRule) (bool, error) {
		roster, ok, err := mapper.Map(record)
		if err != nil || !ok {
			return false, err
		}
		result.Rosters = append(result.Rosters, *roster)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ImportHolidays requires options.Year; rows dated in another year fail the
// whole import.
func ImportHolidays(paths []string, options Options) (*HolidayResult, error) {
	mapper := &HolidayMapper{Year: options.Year, Location: options.Location}
	result := &HolidayResult{Holidays: make([]holiday.Record, 0, 16)}

	err := eachRecord(paths, KindHoliday, options, &result.Result, func(record Record, _ string, _ config.ImportRule) (bool, error) {
		entry, ok, err := mapper.Map(record)
		if err != nil || !ok {
			return false, err
		}
		result.Holidays = append(result.Holidays, *entry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func eachRecord(paths []string, kind Kind, options Options, result *Result, mapRecord func(Record, string, config.ImportRule) (bool, error)) error {
	for _, path := range paths {
		rule := MatchRuleByTemplate(path, kind, options.Rules)
		sourceFormat, err := inferFormat(path, firstNonEmpty(options.Format, rule.Format))
		if err != nil {
			return err
		}
		reader, err := ReaderForFormat(sourceFormat, rule)
		if err != nil {
			return err
		}

		records, err := reader.Read(path)
		if err != nil {
			return err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			mapped, err := mapRecord(record, path, rule)
			if err != nil {
				return err
			}
			if !mapped {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
		}
	}
	return nil
}

// MatchRuleByTemplate returns the first rule of kind whose file template
// matches the base name or the full path.
func MatchRuleByTemplate(path string, kind Kind, rules []config.ImportRule) config.ImportRule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		if !strings.EqualFold(strings.TrimSpace(rule.Kind), string(kind)) {
			continue
		}
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return config.ImportRule{}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// punchIdentity is the identity of an imported punch. The store's import index
// enforces the same columns.
func punchIdentity(event attendance.ClockEvent) string {
	return strings.Join([]string{
		event.EmployeeID,
		timeutil.FormatDate(event.Date),
		event.Time,
		strconv.Itoa(event.DayOffset),
		event.Direction,
		event.SourceFile,
	}, "|")
}

func dropDuplicatePunches(events []attendance.ClockEvent) ([]attendance.ClockEvent, int) {
	seen := make(map[string]struct{}, len(events))
	out := make([]attendance.ClockEvent, 0, len(events))
	for _, event := range events {
		identity := punchIdentity(event)
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}
		out = append(out, event)
	}
	return out, len(events) - len(out)
}

// selectPerDay applies attendance.AutoSelectEarliestN to each employee-day,
// keeping the overall event order stable.
func selectPerDay(events []attendance.ClockEvent, n int) ([]attendance.ClockEvent, int) {
	byDay := make(map[string][]int)
	for i, event := range events {
		key := event.EmployeeID + "|" + timeutil.FormatDate(event.Date)
		byDay[key] = append(byDay[key], i)
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := append([]attendance.ClockEvent(nil), events...)
	corrected := 0
	for _, key := range keys {
		indexes := byDay[key]
		dayEvents := make([]attendance.ClockEvent, 0, len(indexes))
		for _, idx := range indexes {
			dayEvents = append(dayEvents, out[idx])
		}
		selected := attendance.AutoSelectEarliestN(dayEvents, n)
		changed := false
		for i, idx := range indexes {
			if out[idx].Valid != selected[i].Valid {
				changed = true
			}
			out[idx] = selected[i]
		}
		if changed {
			corrected++
		}
	}
	return out, corrected
}
