package medical

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

const dateLayout = "2006-01-02"

type Service struct {
	records  repository.MedicalRecordRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	validate validator.Validator
	logger   *logger.Logger
}

func NewService(records repository.MedicalRecordRepository,
	patients repository.PatientRepository, doctors repository.DoctorRepository,
	validate validator.Validator, log *logger.Logger) *Service {
	return &Service{
		records:  records,
		patients: patients,
		doctors:  doctors,
		validate: validate,
		logger:   log,
	}
}

func (s *Service) AddRecord(ctx context.Context, req *model.AddRecordRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}
	if req.FollowUpDate != "" {
		if _, err := time.Parse(dateLayout, req.FollowUpDate); err != nil {
			return 0, apperrors.NewValidationf("invalid follow-up date %q, expected YYYY-MM-DD", req.FollowUpDate)
		}
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return 0, err
	}
	if _, err := s.doctors.Get(ctx, req.DoctorID); err != nil {
		return 0, err
	}

	record := &model.MedicalRecord{
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		Symptoms:     req.Symptoms,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		LabTests:     req.LabTests,
		Notes:        req.Notes,
	}
	if req.FollowUpDate != "" {
		followUp := req.FollowUpDate
		record.FollowUpDate = &followUp
	}

	id, err := s.records.Add(ctx, record)
	if err != nil {
		return 0, err
	}

	s.logger.Info("medical record added", "id", id, "patient_id", req.PatientID)
	return id, nil
}

func (s *Service) History(ctx context.Context, patientID int64) ([]*model.MedicalRecord, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.records.ListForPatient(ctx, patientID)
}
