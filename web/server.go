// Package web serves the JSON API over the local attendance database. It is
// meant for a trusted network and carries no authentication.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"attendly/attendance"
	"attendly/config"
	"attendly/internal/timeutil"
	"attendly/leave"
	"attendly/reconcile"
	"attendly/storage"
)

const maxBodyBytes = 1 << 20

var errInvalidAction = errors.New("invalid curation action")

type Server struct {
	store           *storage.SQLiteStore
	leave           *leave.Service
	logger          *logrus.Logger
	reconcile       reconcile.Options
	maxValidPunches int
	loc             *time.Location
	router          chi.Router
}

func NewServer(store *storage.SQLiteStore, cfg config.Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	opts := reconcile.DefaultOptions()
	if mode, err := reconcile.ParseMode(cfg.Attendance.CrossMidnightMode); err == nil {
		opts.Mode = mode
	}
	opts = opts.WithOvertimeThreshold(cfg.Attendance.OvertimeThresholdMinutes)
	maxValid := cfg.Attendance.MaxValidPunches
	if maxValid <= 0 {
		maxValid = attendance.DefaultValidPunches
	}

	s := &Server{
		store:           store,
		logger:          logger,
		reconcile:       opts,
		maxValidPunches: maxValid,
		loc:             time.Local,
	}
	s.leave = leave.NewService(store, store, logger, leave.Defaults{
		IncludeWeekends: cfg.Leave.IncludeWeekends,
		ExcludeHolidays: cfg.Leave.ExcludeHolidays,
		Location:        s.loc,
	})
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			s.success(w, r, map[string]string{"status": "ok"})
		})
		r.Route("/leave", func(r chi.Router) {
			r.Post("/compute", s.handleLeaveCompute)
			r.Post("/requests", s.handleLeaveSubmit)
			r.Get("/requests", s.handleLeaveList)
		})
		r.Get("/holidays", s.handleHolidays)
		r.Get("/remarks", s.handleRemarks)
		r.Route("/attendance/{employee}/{date}", func(r chi.Router) {
			r.Get("/", s.handleDay)
			r.Post("/curate", s.handleCurate)
		})
	})
	s.router = r
}

func (s *Server) handleLeaveCompute(w http.ResponseWriter, r *http.Request) {
	var req leave.ComputeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}
	result, err := s.leave.Compute(req)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, struct {
		leave.Result
		Holidays []HolidayRow `json:"holidays"`
	}{Result: result, Holidays: BuildHolidayRows(result.Holidays)})
}

func (s *Server) handleLeaveSubmit(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}
	request, err := s.leave.Submit(req)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.created(w, r, request)
}

func (s *Server) handleLeaveList(w http.ResponseWriter, r *http.Request) {
	requests, err := s.store.ListLeaveRequests(strings.TrimSpace(r.URL.Query().Get("employee")))
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, requests)
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r, true)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	records, err := s.store.ListHolidays(from, to)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, BuildHolidayRows(records))
}

func (s *Server) handleRemarks(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r, false)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	remarks, err := s.store.ListAttendanceRemarks(from, to)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, remarks)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	employeeID, date, err := s.dayParams(r)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	view, err := s.loadDayView(employeeID, date)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, view)
}

type curateAction struct {
	Type      string `json:"type"`
	Key       string `json:"key,omitempty"`
	Valid     *bool  `json:"valid,omitempty"`
	Time      string `json:"time,omitempty"`
	Direction string `json:"direction,omitempty"`
	DayOffset int    `json:"dayOffset,omitempty"`
	Count     int    `json:"count,omitempty"`
}

type curateRequest struct {
	Actions []curateAction `json:"actions"`
}

type curateResponse struct {
	Saved attendance.SaveResult `json:"saved"`
	Day   DayView               `json:"day"`
}

// handleCurate applies the actions in order to the stored day, saves the
// outcome and recomputes the day's remark. Nothing is persisted when any
// action fails. An event added earlier in the same request is addressed as
// "new:<action index>".
func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	employeeID, date, err := s.dayParams(r)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	var req curateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}
	if len(req.Actions) == 0 {
		s.fail(w, r, http.StatusBadRequest, "invalid_action", "no actions given")
		return
	}

	events, err := s.store.ListClockEvents(employeeID, date)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	day := attendance.NewDay(employeeID, date, events)

	added := make(map[string]attendance.Key)
	for i, action := range req.Actions {
		if err := s.applyAction(day, action, i, added); err != nil {
			s.failErr(w, r, fmt.Errorf("action %d: %w", i, err))
			return
		}
	}

	saved, err := day.Save(s.store)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	if _, err := reconcile.ReconcileDay(s.store, employeeID, date, s.reconcile); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        timeutil.FormatDate(date),
		}).Warn("reconcile after curation failed")
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id":      employeeID,
		"date":             timeutil.FormatDate(date),
		"validity_updated": saved.ValidityUpdated,
		"times_updated":    saved.TimesUpdated,
		"created":          saved.Created,
	}).Info("attendance day curated")

	view, err := s.loadDayView(employeeID, date)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	s.success(w, r, curateResponse{Saved: saved, Day: view})
}

func (s *Server) applyAction(day *attendance.Day, action curateAction, index int, added map[string]attendance.Key) error {
	actionType := strings.ToLower(strings.TrimSpace(action.Type))
	switch actionType {
	case "add":
		key, err := day.AddDraft(attendance.ClockEvent{
			Time:      action.Time,
			DayOffset: action.DayOffset,
			Direction: strings.ToLower(strings.TrimSpace(action.Direction)),
		})
		if err != nil {
			return err
		}
		added[fmt.Sprintf("new:%d", index)] = key
		return nil
	case "auto_select":
		count := action.Count
		if count <= 0 {
			count = s.maxValidPunches
		}
		day.AutoSelectEarliestN(count)
		return nil
	case "set_validity", "edit_time", "remove":
	default:
		return fmt.Errorf("%w: unknown type %q", errInvalidAction, action.Type)
	}

	key, err := resolveKey(day, action.Key, added)
	if err != nil {
		return err
	}
	switch actionType {
	case "set_validity":
		if action.Valid == nil {
			return fmt.Errorf("%w: set_validity needs valid", errInvalidAction)
		}
		day.SetValidity(key, *action.Valid)
		return nil
	case "edit_time":
		return day.UpsertTime(key, action.Time)
	default:
		return day.Remove(key)
	}
}

func resolveKey(day *attendance.Day, raw string, added map[string]attendance.Key) (attendance.Key, error) {
	raw = strings.TrimSpace(raw)
	if key, ok := added[raw]; ok {
		return key, nil
	}
	key, err := attendance.ParseKey(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidAction, err)
	}
	if _, ok := day.Get(key); !ok {
		return "", fmt.Errorf("%w: %s", attendance.ErrEventNotFound, key)
	}
	return key, nil
}

func (s *Server) loadDayView(employeeID string, date time.Time) (DayView, error) {
	events, err := s.store.ListClockEvents(employeeID, date)
	if err != nil {
		return DayView{}, err
	}
	roster, err := s.store.GetRoster(employeeID, date)
	if err != nil {
		return DayView{}, err
	}
	return BuildDayView(attendance.NewDay(employeeID, date, events), roster, s.reconcile), nil
}

func (s *Server) dayParams(r *http.Request) (string, time.Time, error) {
	employeeID := strings.TrimSpace(chi.URLParam(r, "employee"))
	if employeeID == "" {
		return "", time.Time{}, fmt.Errorf("%w: employee", leave.ErrMissingRequiredField)
	}
	date, err := timeutil.ParseDate(chi.URLParam(r, "date"), s.loc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return employeeID, date, nil
}

// parseRange reads the from/to query parameters. Unless required, a missing
// bound stays zero and means open-ended.
func (s *Server) parseRange(r *http.Request, required bool) (time.Time, time.Time, error) {
	var bounds [2]time.Time
	for i, name := range []string{"from", "to"} {
		raw := strings.TrimSpace(r.URL.Query().Get(name))
		if raw == "" {
			if required {
				return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", leave.ErrMissingRequiredField, name)
			}
			continue
		}
		parsed, err := timeutil.ParseDate(raw, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %v", errInvalidRequest, name, err)
		}
		bounds[i] = parsed
	}
	if !bounds[0].IsZero() && !bounds[1].IsZero() && bounds[1].Before(bounds[0]) {
		return time.Time{}, time.Time{}, leave.ErrInvalidDateRange
	}
	return bounds[0], bounds[1], nil
}
