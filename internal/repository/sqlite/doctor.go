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

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Register(ctx context.Context, doctor *model.Doctor) (int64, error) {
	now := time.Now().UTC()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	var id int64
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM doctors WHERE employee_id = ?`, doctor.EmployeeID); err != nil {
			return persistence(err)
		}
		if n > 0 {
			return apperrors.NewConflict("doctor with this employee id already exists")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO doctors (
				employee_id, first_name, last_name, specialization, qualification,
				experience_years, phone, email, address, consultation_fee,
				schedule, is_available, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			doctor.EmployeeID, doctor.FirstName, doctor.LastName,
			doctor.Specialization, doctor.Qualification, doctor.ExperienceYears,
			doctor.Phone, doctor.Email, doctor.Address, doctor.ConsultationFee,
			doctor.Schedule, doctor.IsAvailable, doctor.CreatedAt, doctor.UpdatedAt)
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
	doctor.ID = id
	return id, nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.store.Get(ctx, &doctor, `SELECT * FROM doctors WHERE doctor_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor")
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	doctor.UpdatedAt = time.Now().UTC()
	rows, err := r.store.Mutate(ctx,
		`UPDATE doctors SET
			first_name = ?, last_name = ?, specialization = ?, qualification = ?,
			experience_years = ?, phone = ?, email = ?, address = ?,
			consultation_fee = ?, schedule = ?, updated_at = ?
		 WHERE doctor_id = ?`,
		doctor.FirstName, doctor.LastName, doctor.Specialization,
		doctor.Qualification, doctor.ExperienceYears, doctor.Phone, doctor.Email,
		doctor.Address, doctor.ConsultationFee, doctor.Schedule,
		doctor.UpdatedAt, doctor.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	rows, err := r.store.Mutate(ctx,
		`UPDATE doctors SET is_available = ?, updated_at = ? WHERE doctor_id = ?`,
		available, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id int64) error {
	rows, err := r.store.Mutate(ctx, `DELETE FROM doctors WHERE doctor_id = ?`, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	err := r.store.Select(ctx, &doctors,
		`SELECT * FROM doctors ORDER BY last_name, first_name`)
	return doctors, err
}

func (r *doctorRepository) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	err := r.store.Select(ctx, &doctors,
		`SELECT * FROM doctors WHERE is_available = 1 ORDER BY last_name, first_name`)
	return doctors, err
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n, `SELECT COUNT(*) FROM doctors`)
	return n, err
}

func (r *doctorRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = ?`, id)
	return n, err
}
