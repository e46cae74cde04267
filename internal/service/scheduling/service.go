package scheduling

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/metrics"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDurationMinutes = 30
)

type Service struct {
	appointments    repository.AppointmentRepository
	doctors         repository.DoctorRepository
	patients        repository.PatientRepository
	validate        validator.Validator
	logger          *logger.Logger
	metrics         *metrics.Metrics
	defaultDuration int
}

func NewService(appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository,
	validate validator.Validator, log *logger.Logger, m *metrics.Metrics,
	defaultDurationMinutes int) *Service {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = DefaultDurationMinutes
	}
	return &Service{
		appointments:    appointments,
		doctors:         doctors,
		patients:        patients,
		validate:        validate,
		logger:          log,
		metrics:         m,
		defaultDuration: defaultDurationMinutes,
	}
}

func (s *Service) ListAvailableDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

// Schedule validates the request, verifies both parties exist, then books the
// slot. The conflict check and the insert run in one transaction inside the
// repository, so a second caller cannot double-book the slot.
func (s *Service) Schedule(ctx context.Context, req *model.ScheduleRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return 0, apperrors.NewValidationf("invalid date %q, expected YYYY-MM-DD", req.Date)
	}
	if _, err := time.Parse(TimeLayout, req.Time); err != nil {
		return 0, apperrors.NewValidationf("invalid time %q, expected HH:MM", req.Time)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.defaultDuration
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return 0, err
	}
	if _, err := s.doctors.Get(ctx, req.DoctorID); err != nil {
		return 0, err
	}

	appt := &model.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: duration,
		Notes:           req.Notes,
	}

	id, err := s.appointments.Schedule(ctx, appt)
	if err != nil {
		if apperrors.IsConflict(err) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsScheduled.Inc()
	}
	s.logger.Info("appointment scheduled",
		"id", id, "doctor_id", req.DoctorID, "date", req.Date, "time", req.Time)
	return id, nil
}

// Cancel moves the appointment to cancelled. Completed and no-show
// appointments are terminal and reject the move.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusCancelled)
}

// Complete moves the appointment to completed.
func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusCompleted)
}

// MarkNoShow records that the patient did not attend.
func (s *Service) MarkNoShow(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusNoShow)
}

func (s *Service) transition(ctx context.Context, id int64, next model.AppointmentStatus) error {
	if err := s.appointments.Transition(ctx, id, next); err != nil {
		return err
	}
	s.logger.Info("appointment status changed", "id", id, "status", string(next))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

// ListForDate returns the day's appointments joined with party names,
// ordered by time ascending.
func (s *Service) ListForDate(ctx context.Context, date string) ([]*model.AppointmentDetail, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperrors.NewValidationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.appointments.ListForDate(ctx, date)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID int64, date string) ([]*model.AppointmentDetail, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apperrors.NewValidationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return s.appointments.ListForDoctorDate(ctx, doctorID, date)
}

// ListRecent returns the bounded global listing, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*model.AppointmentDetail, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.appointments.ListRecent(ctx, limit)
}
