package patient

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
	patients repository.PatientRepository
	validate validator.Validator
	logger   *logger.Logger
}

func NewService(patients repository.PatientRepository, validate validator.Validator, log *logger.Logger) *Service {
	return &Service{patients: patients, validate: validate, logger: log}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}
	if _, err := time.Parse(dateLayout, req.DateOfBirth); err != nil {
		return 0, apperrors.NewValidationf("invalid date of birth %q, expected YYYY-MM-DD", req.DateOfBirth)
	}

	patient := &model.Patient{
		NationalID:       req.NationalID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodGroup:       req.BloodGroup,
		Allergies:        req.Allergies,
		MedicalHistory:   req.MedicalHistory,
		InsuranceInfo:    req.InsuranceInfo,
	}

	id, err := s.patients.Register(ctx, patient)
	if err != nil {
		return 0, err
	}

	s.logger.Info("patient registered", "id", id, "national_id", req.NationalID)
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.patients.Get(ctx, id)
}

func (s *Service) GetByNationalID(ctx context.Context, nationalID string) (*model.Patient, error) {
	return s.patients.GetByNationalID(ctx, nationalID)
}

func (s *Service) Update(ctx context.Context, patient *model.Patient) error {
	if patient.ID <= 0 {
		return apperrors.NewValidation("patient id is required")
	}
	return s.patients.Update(ctx, patient)
}

// Delete removes a patient only when no appointments or bills still
// reference them; dependents make the delete a conflict, never a cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	refs, err := s.patients.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.NewConflict("patient has appointments or bills on record")
	}

	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("patient deleted", "id", id)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	return s.patients.List(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	if term == "" {
		return s.patients.List(ctx)
	}
	return s.patients.Search(ctx, term)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.patients.Count(ctx)
}
