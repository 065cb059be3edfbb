package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"attendly/holiday"
	"attendly/internal/timeutil"
)

// RequestStore is the approval storage a submitted request is handed to.
type RequestStore interface {
	InsertLeaveRequest(request Request) (int64, error)
}

type Defaults struct {
	IncludeWeekends bool
	ExcludeHolidays bool
	Location        *time.Location
}

type Service struct {
	holidays holiday.Source
	store    RequestStore
	logger   *logrus.Logger
	defaults Defaults
	validate *validator.Validate
	now      func() time.Time
}

func NewService(holidays holiday.Source, store RequestStore, logger *logrus.Logger, defaults Defaults) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if defaults.Location == nil {
		defaults.Location = time.Local
	}
	return &Service{
		holidays: holidays,
		store:    store,
		logger:   logger,
		defaults: defaults,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Compute resolves req into an Input and computes its net days. A failing
// holiday lookup is logged and treated as "no holidays" so a submission is
// never blocked by the calendar.
func (s *Service) Compute(req ComputeRequest) (Result, error) {
	in, err := s.resolveInput(req)
	if err != nil {
		return Result{}, err
	}
	return s.compute(in), nil
}

// Submit computes the request duration and passes the request on to storage.
func (s *Service) Submit(req SubmitRequest) (Request, error) {
	if err := s.validateStruct(req); err != nil {
		return Request{}, err
	}
	in, err := s.resolveInput(req.ComputeRequest)
	if err != nil {
		return Request{}, err
	}
	if s.store == nil {
		return Request{}, fmt.Errorf("leave request store is not configured")
	}

	result := s.compute(in)
	request := Request{
		EmployeeID:      strings.TrimSpace(req.EmployeeID),
		LeaveType:       strings.TrimSpace(req.LeaveType),
		StartDate:       in.Span.Start,
		EndDate:         in.Span.End,
		StartSession:    in.StartSession,
		EndSession:      in.EndSession,
		IncludeWeekends: in.IncludeWeekends,
		ExcludeHolidays: in.ExcludeHolidays,
		NetDays:         result.NetDays,
		Reason:          strings.TrimSpace(req.Reason),
		Status:          StatusPending,
		CreatedAt:       s.now(),
	}

	id, err := s.store.InsertLeaveRequest(request)
	if err != nil {
		return Request{}, fmt.Errorf("store leave request: %w", err)
	}
	request.ID = id

	s.logger.WithFields(logrus.Fields{
		"request_id":  id,
		"employee_id": request.EmployeeID,
		"start":       timeutil.FormatDate(request.StartDate),
		"end":         timeutil.FormatDate(request.EndDate),
		"net_days":    request.NetDays,
	}).Info("leave request submitted")

	return request, nil
}

func (s *Service) compute(in Input) Result {
	result := Result{BaseDays: BaseDays(in.Span, in.IncludeWeekends)}

	var holidays []holiday.Record
	if in.ExcludeHolidays && s.holidays != nil {
		found, err := s.holidays.ListHolidays(in.Span.Start, in.Span.End)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"start": timeutil.FormatDate(in.Span.Start),
				"end":   timeutil.FormatDate(in.Span.End),
			}).Warn("holiday lookup failed, computing without holidays")
			result.HolidayLookupFailed = true
		} else {
			holidays = found
		}
	}

	// Validated by resolveInput, so ComputeDays cannot fail here.
	netDays, _ := ComputeDays(in, holidays)
	result.NetDays = netDays
	result.Holidays = holiday.NewSet(holidays).Within(in.Span.Start, in.Span.End)
	if in.ExcludeHolidays {
		result.HolidayDeduction = HolidayDeduction(in.Span, in.StartSession, in.EndSession, holidays)
	}
	return result
}

func (s *Service) resolveInput(req ComputeRequest) (Input, error) {
	if err := s.validateStruct(req); err != nil {
		return Input{}, err
	}

	start, err := timeutil.ParseDate(req.StartDate, s.defaults.Location)
	if err != nil {
		return Input{}, fmt.Errorf("%w: start date: %w", ErrInvalidInput, err)
	}
	end, err := timeutil.ParseDate(req.EndDate, s.defaults.Location)
	if err != nil {
		return Input{}, fmt.Errorf("%w: end date: %w", ErrInvalidInput, err)
	}
	startSession, err := ParseSession(req.StartSession)
	if err != nil {
		return Input{}, fmt.Errorf("%w: start session: %w", ErrInvalidInput, err)
	}
	endSession, err := ParseSession(req.EndSession)
	if err != nil {
		return Input{}, fmt.Errorf("%w: end session: %w", ErrInvalidInput, err)
	}

	in := Input{
		Span:            DateSpan{Start: start, End: end},
		StartSession:    startSession,
		EndSession:      endSession,
		IncludeWeekends: boolOr(req.IncludeWeekends, s.defaults.IncludeWeekends),
		ExcludeHolidays: boolOr(req.ExcludeHolidays, s.defaults.ExcludeHolidays),
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

func (s *Service) validateStruct(value any) error {
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate leave request: %w", err)
	}

	missing := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		if fieldErr.Tag() == "required" {
			missing = append(missing, fieldErr.Field())
			continue
		}
		return fmt.Errorf("%w: %s (%s)", ErrInvalidInput, fieldErr.Field(), fieldErr.Tag())
	}
	return fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(missing, ", "))
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
