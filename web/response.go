package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"attendly/attendance"
	"attendly/leave"
)

var errInvalidRequest = errors.New("invalid request")

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).WithField("request_id", payload.RequestID).Warn("write json failed")
	}
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, RequestID: requestIDFrom(r.Context())})
}

func (s *Server) created(w http.ResponseWriter, r *http.Request, data any) {
	s.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data, RequestID: requestIDFrom(r.Context())})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, envelope{
		Error:     &apiError{Code: code, Message: message},
		RequestID: requestIDFrom(r.Context()),
	})
}

// failErr maps domain errors onto status codes. Anything unrecognised is a
// server error and is logged.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidTimeFormat):
		s.fail(w, r, http.StatusBadRequest, "invalid_time_format", err.Error())
	case errors.Is(err, leave.ErrInvalidDateRange):
		s.fail(w, r, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, leave.ErrMissingRequiredField):
		s.fail(w, r, http.StatusBadRequest, "missing_required_field", err.Error())
	case errors.Is(err, attendance.ErrEventNotFound):
		s.fail(w, r, http.StatusNotFound, "event_not_found", err.Error())
	case errors.Is(err, leave.ErrInvalidInput):
		s.fail(w, r, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, errInvalidAction):
		s.fail(w, r, http.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, errInvalidRequest):
		s.fail(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, attendance.ErrPersistedEvent):
		s.fail(w, r, http.StatusConflict, "persisted_event", err.Error())
	default:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": requestIDFrom(r.Context()),
			"path":       r.URL.Path,
		}).Error("request failed")
		s.fail(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, http.StatusBadRequest, "invalid_request", err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
