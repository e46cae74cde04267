package sqlite

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
)

type medicalRecordRepository struct {
	store *Store
}

func NewMedicalRecordRepository(store *Store) repository.MedicalRecordRepository {
	return &medicalRecordRepository{store: store}
}

func (r *medicalRecordRepository) Add(ctx context.Context, record *model.MedicalRecord) (int64, error) {
	if record.VisitDate.IsZero() {
		record.VisitDate = time.Now().UTC()
	}

	id, err := r.store.Insert(ctx,
		`INSERT INTO medical_records (
			patient_id, doctor_id, visit_date, symptoms, diagnosis,
			prescription, lab_tests, follow_up_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.PatientID, record.DoctorID, record.VisitDate, record.Symptoms,
		record.Diagnosis, record.Prescription, record.LabTests,
		record.FollowUpDate, record.Notes)
	if err != nil {
		return 0, err
	}
	record.ID = id
	return id, nil
}

func (r *medicalRecordRepository) ListForPatient(ctx context.Context, patientID int64) ([]*model.MedicalRecord, error) {
	var records []*model.MedicalRecord
	err := r.store.Select(ctx, &records,
		`SELECT * FROM medical_records WHERE patient_id = ? ORDER BY visit_date DESC`,
		patientID)
	return records, err
}
