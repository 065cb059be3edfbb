// Package reconcile compares curated clock events against the roster and
// classifies each employee-day.
package reconcile

import (
	"fmt"
	"strings"

	"attendly/attendance"
	"attendly/internal/timeutil"
)

// DefaultOvertimeThreshold is the minimum overtime, in minutes, worth reporting.
const DefaultOvertimeThreshold = 15

type Mode string

const (
	// ModeHeuristic infers next-day punches from the roster window.
	ModeHeuristic Mode = "heuristic"
	// ModeExplicit only trusts the DayOffset recorded on each event.
	ModeExplicit Mode = "explicit"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeHeuristic:
		return ModeHeuristic, nil
	case ModeExplicit:
		return ModeExplicit, nil
	default:
		return "", fmt.Errorf("unsupported cross-midnight mode %q (supported: heuristic, explicit)", value)
	}
}

type Status string

const (
	StatusOnTime       Status = "on_time"
	StatusLate         Status = "late"
	StatusEarlyLeave   Status = "early_leave"
	StatusOvertime     Status = "overtime"
	StatusAbsent       Status = "absent"
	StatusUnclassified Status = "unclassified"
)

type Options struct {
	Mode Mode
	// OvertimeThreshold is the minimum overtime reported, in minutes. Nil
	// means DefaultOvertimeThreshold; zero reports every minute past the end.
	OvertimeThreshold *int
}

func DefaultOptions() Options {
	return Options{Mode: ModeHeuristic}
}

// WithOvertimeThreshold returns a copy using minutes as the threshold.
// Negative values are treated as zero.
func (o Options) WithOvertimeThreshold(minutes int) Options {
	if minutes < 0 {
		minutes = 0
	}
	o.OvertimeThreshold = &minutes
	return o
}

func (o Options) overtimeThreshold() int {
	if o.OvertimeThreshold == nil {
		return DefaultOvertimeThreshold
	}
	return *o.OvertimeThreshold
}

func (o Options) normalized() Options {
	if o.Mode == "" {
		o.Mode = ModeHeuristic
	}
	return o
}

// Result is the classification of one employee-day. Several statuses may hold
// at once, e.g. late and overtime.
type Result struct {
	Statuses        []Status `json:"statuses"`
	LateMinutes     int      `json:"lateMinutes"`
	EarlyMinutes    int      `json:"earlyMinutes"`
	OvertimeMinutes int      `json:"overtimeMinutes"`
	FirstValid      string   `json:"firstValid,omitempty"`
	LastValid       string   `json:"lastValid,omitempty"`
}

func (r Result) Has(status Status) bool {
	for _, existing := range r.Statuses {
		if existing == status {
			return true
		}
	}
	return false
}

func (r Result) StatusStrings() []string {
	out := make([]string, 0, len(r.Statuses))
	for _, status := range r.Statuses {
		out = append(out, string(status))
	}
	return out
}

// Compare classifies the valid events of one day against roster. A nil or
// empty roster is unclassified regardless of events; a roster without valid
// events is absent.
func Compare(roster *attendance.RosterWindow, events []attendance.ClockEvent, opts Options) (Result, error) {
	opts = opts.normalized()
	if roster.Empty() {
		return Result{Statuses: []Status{StatusUnclassified}}, nil
	}

	win, err := parseWindow(roster)
	if err != nil {
		return Result{}, err
	}

	minutesOf := win.minutesFunc(opts.Mode)
	first, last, ok := attendance.FirstAndLastValidBy(events, minutesOf)
	if !ok {
		return Result{Statuses: []Status{StatusAbsent}}, nil
	}
	firstMinutes, _ := minutesOf(first)
	lastMinutes, _ := minutesOf(last)

	result := Result{FirstValid: first.Time, LastValid: last.Time}
	if win.hasStart && firstMinutes > win.start {
		result.Statuses = append(result.Statuses, StatusLate)
		result.LateMinutes = firstMinutes - win.start
	}
	if win.hasEnd {
		switch {
		case lastMinutes < win.end:
			result.Statuses = append(result.Statuses, StatusEarlyLeave)
			result.EarlyMinutes = win.end - lastMinutes
		case lastMinutes > win.end && lastMinutes-win.end >= opts.overtimeThreshold():
			result.Statuses = append(result.Statuses, StatusOvertime)
			result.OvertimeMinutes = lastMinutes - win.end
		}
	}
	if len(result.Statuses) == 0 {
		result.Statuses = []Status{StatusOnTime}
	}
	return result, nil
}

// FormatRemarks renders a result as the human readable remark stored per day.
func FormatRemarks(result Result) string {
	parts := make([]string, 0, len(result.Statuses))
	for _, status := range result.Statuses {
		switch status {
		case StatusUnclassified:
			parts = append(parts, "No roster")
		case StatusAbsent:
			parts = append(parts, "Absent")
		case StatusOnTime:
			parts = append(parts, "On time")
		case StatusLate:
			parts = append(parts, fmt.Sprintf("Late %d min", result.LateMinutes))
		case StatusEarlyLeave:
			parts = append(parts, fmt.Sprintf("Early leave %d min", result.EarlyMinutes))
		case StatusOvertime:
			parts = append(parts, fmt.Sprintf("Overtime %d min", result.OvertimeMinutes))
		}
	}
	return strings.Join(parts, "; ")
}

type window struct {
	start    int
	end      int
	hasStart bool
	hasEnd   bool
}

func parseWindow(roster *attendance.RosterWindow) (window, error) {
	win := window{}
	if text := strings.TrimSpace(roster.ScheduledStart); text != "" {
		minutes, err := timeutil.ParseExtendedTime(text)
		if err != nil {
			return win, fmt.Errorf("scheduled start: %w", err)
		}
		win.start, win.hasStart = minutes, true
	}
	if text := strings.TrimSpace(roster.ScheduledEnd); text != "" {
		minutes, err := timeutil.ParseExtendedTime(text)
		if err != nil {
			return win, fmt.Errorf("scheduled end: %w", err)
		}
		win.end, win.hasEnd = minutes, true
	}
	if win.hasStart && win.hasEnd && win.end < win.start {
		win.end += timeutil.MinutesPerDay
	}
	return win, nil
}

// crossesMidnight reports whether the scheduled end falls on the next day.
func (w window) crossesMidnight() bool {
	return w.hasEnd && w.end >= timeutil.MinutesPerDay
}

// endOnlyGraceHours is how far past a next-day scheduled end a punch still
// counts as next-day when the roster has no start.
const endOnlyGraceHours = 6

// anchorHour is the hour below which a punch is read as next-day. Without a
// scheduled start it covers the hours up to the next-day end plus a grace,
// so late-morning punches stay on the roster date.
func (w window) anchorHour() int {
	if w.hasStart {
		return timeutil.ExtendedHour(w.start)
	}
	anchor := timeutil.ExtendedHour(w.end) - 24 + endOnlyGraceHours
	if anchor > 12 {
		anchor = 12
	}
	return anchor
}

func (w window) minutesFunc(mode Mode) func(attendance.ClockEvent) (int, error) {
	if mode == ModeExplicit {
		return attendance.ClockEvent.EffectiveMinutes
	}
	return func(event attendance.ClockEvent) (int, error) {
		minutes, err := event.Minutes()
		if err != nil {
			return 0, err
		}
		if event.DayOffset > 0 {
			return timeutil.WithDayOffset(minutes, event.DayOffset), nil
		}
		if !w.crossesMidnight() {
			return minutes, nil
		}
		return timeutil.CompareAcrossMidnight(w.anchorHour(), minutes), nil
	}
}
