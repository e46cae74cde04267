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

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Register(ctx context.Context, patient *model.Patient) (int64, error) {
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	var id int64
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM patients WHERE national_id = ?`, patient.NationalID); err != nil {
			return persistence(err)
		}
		if n > 0 {
			return apperrors.NewConflict("patient with this national id already exists")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO patients (
				national_id, first_name, last_name, date_of_birth, gender,
				phone, email, address, emergency_contact, emergency_phone,
				blood_group, allergies, medical_history, insurance_info,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			patient.NationalID, patient.FirstName, patient.LastName,
			patient.DateOfBirth, patient.Gender, patient.Phone, patient.Email,
			patient.Address, patient.EmergencyContact, patient.EmergencyPhone,
			patient.BloodGroup, patient.Allergies, patient.MedicalHistory,
			patient.InsuranceInfo, patient.CreatedAt, patient.UpdatedAt)
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
	patient.ID = id
	return id, nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	err := r.store.Get(ctx, &patient, `SELECT * FROM patients WHERE patient_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("patient")
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) GetByNationalID(ctx context.Context, nationalID string) (*model.Patient, error) {
	var patient model.Patient
	err := r.store.Get(ctx, &patient, `SELECT * FROM patients WHERE national_id = ?`, nationalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("patient")
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	patient.UpdatedAt = time.Now().UTC()
	rows, err := r.store.Mutate(ctx,
		`UPDATE patients SET
			first_name = ?, last_name = ?, date_of_birth = ?, gender = ?,
			phone = ?, email = ?, address = ?, emergency_contact = ?,
			emergency_phone = ?, blood_group = ?, allergies = ?,
			medical_history = ?, insurance_info = ?, updated_at = ?
		 WHERE patient_id = ?`,
		patient.FirstName, patient.LastName, patient.DateOfBirth, patient.Gender,
		patient.Phone, patient.Email, patient.Address, patient.EmergencyContact,
		patient.EmergencyPhone, patient.BloodGroup, patient.Allergies,
		patient.MedicalHistory, patient.InsuranceInfo, patient.UpdatedAt, patient.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient")
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	rows, err := r.store.Mutate(ctx, `DELETE FROM patients WHERE patient_id = ?`, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient")
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	var patients []*model.Patient
	err := r.store.Select(ctx, &patients,
		`SELECT * FROM patients ORDER BY last_name, first_name`)
	return patients, err
}

func (r *patientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	like := "%" + term + "%"
	var patients []*model.Patient
	err := r.store.Select(ctx, &patients,
		`SELECT * FROM patients
		 WHERE first_name LIKE ? OR last_name LIKE ? OR national_id LIKE ?
		 ORDER BY last_name, first_name`, like, like, like)
	return patients, err
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n, `SELECT COUNT(*) FROM patients`)
	return n, err
}

// CountReferences reports how many appointments and bills still point at the
// patient. Deletion is refused by the service while any exist.
func (r *patientRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n,
		`SELECT
			(SELECT COUNT(*) FROM appointments WHERE patient_id = ?) +
			(SELECT COUNT(*) FROM billing WHERE patient_id = ?)`, id, id)
	return n, err
}
