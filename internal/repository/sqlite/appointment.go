package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

const appointmentDetailQuery = `
	SELECT a.appointment_id, a.patient_id, a.doctor_id, a.appointment_date,
	       a.appointment_time, a.duration_minutes, a.status, a.notes,
	       a.created_at, a.updated_at,
	       p.first_name || ' ' || p.last_name AS patient_name,
	       d.first_name || ' ' || d.last_name AS doctor_name
	FROM appointments a
	JOIN patients p ON p.patient_id = a.patient_id
	JOIN doctors d ON d.doctor_id = a.doctor_id`

// Schedule checks the slot and inserts in one transaction so two concurrent
// bookings for the same (doctor, date, time) cannot both pass the check.
func (r *appointmentRepository) Schedule(ctx context.Context, appt *model.Appointment) (int64, error) {
	now := time.Now().UTC()
	appt.Status = model.AppointmentStatusScheduled
	appt.CreatedAt = now
	appt.UpdatedAt = now

	var id int64
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM appointments
			 WHERE doctor_id = ? AND appointment_date = ? AND appointment_time = ?
			 AND status != ?`,
			appt.DoctorID, appt.Date, appt.Time, model.AppointmentStatusCancelled); err != nil {
			return persistence(err)
		}
		if n > 0 {
			return apperrors.NewConflict("doctor already booked for this slot")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO appointments (
				patient_id, doctor_id, appointment_date, appointment_time,
				duration_minutes, status, notes, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			appt.PatientID, appt.DoctorID, appt.Date, appt.Time,
			appt.DurationMinutes, appt.Status, appt.Notes,
			appt.CreatedAt, appt.UpdatedAt)
		if err != nil {
			return persistence(err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	appt.ID = id
	return id, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.store.Get(ctx, &appt,
		`SELECT * FROM appointments WHERE appointment_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("appointment")
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Transition loads the current status and moves to next inside one
// transaction. Terminal statuses reject every move.
func (r *appointmentRepository) Transition(ctx context.Context, id int64, next model.AppointmentStatus) error {
	return r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var current model.AppointmentStatus
		err := tx.GetContext(ctx, &current,
			`SELECT status FROM appointments WHERE appointment_id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFound("appointment")
		}
		if err != nil {
			return persistence(err)
		}

		if !current.CanTransitionTo(next) {
			return apperrors.NewValidationf("cannot move appointment from %s to %s", current, next)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE appointments SET status = ?, updated_at = ? WHERE appointment_id = ?`,
			next, time.Now().UTC(), id); err != nil {
			return persistence(err)
		}
		return nil
	})
}

func (r *appointmentRepository) CountActiveAt(ctx context.Context, doctorID int64, date, timeOfDay string) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n,
		`SELECT COUNT(*) FROM appointments
		 WHERE doctor_id = ? AND appointment_date = ? AND appointment_time = ?
		 AND status != ?`,
		doctorID, date, timeOfDay, model.AppointmentStatusCancelled)
	return n, err
}

func (r *appointmentRepository) ListForDate(ctx context.Context, date string) ([]*model.AppointmentDetail, error) {
	var appointments []*model.AppointmentDetail
	err := r.store.Select(ctx, &appointments,
		appointmentDetailQuery+`
		WHERE a.appointment_date = ?
		ORDER BY a.appointment_time ASC`, date)
	return appointments, err
}

func (r *appointmentRepository) ListForDoctorDate(ctx context.Context, doctorID int64, date string) ([]*model.AppointmentDetail, error) {
	var appointments []*model.AppointmentDetail
	err := r.store.Select(ctx, &appointments,
		appointmentDetailQuery+`
		WHERE a.doctor_id = ? AND a.appointment_date = ?
		ORDER BY a.appointment_time ASC`, doctorID, date)
	return appointments, err
}

func (r *appointmentRepository) ListRecent(ctx context.Context, limit int) ([]*model.AppointmentDetail, error) {
	var appointments []*model.AppointmentDetail
	err := r.store.Select(ctx, &appointments,
		appointmentDetailQuery+`
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT ?`, limit)
	return appointments, err
}
