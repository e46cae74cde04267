package doctor

import (
	"context"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

type Service struct {
	doctors  repository.DoctorRepository
	validate validator.Validator
	logger   *logger.Logger
}

func NewService(doctors repository.DoctorRepository, validate validator.Validator, log *logger.Logger) *Service {
	return &Service{doctors: doctors, validate: validate, logger: log}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterDoctorRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}

	doctor := &model.Doctor{
		EmployeeID:      req.EmployeeID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		ConsultationFee: req.ConsultationFee,
		Schedule:        req.Schedule,
		IsAvailable:     true,
	}

	id, err := s.doctors.Register(ctx, doctor)
	if err != nil {
		return 0, err
	}

	s.logger.Info("doctor registered", "id", id, "employee_id", req.EmployeeID)
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.doctors.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, doctor *model.Doctor) error {
	if doctor.ID <= 0 {
		return apperrors.NewValidation("doctor id is required")
	}
	return s.doctors.Update(ctx, doctor)
}

func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.doctors.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.logger.Info("doctor availability changed", "id", id, "available", available)
	return nil
}

// Delete removes a doctor only while no appointments reference them.
func (s *Service) Delete(ctx context.Context, id int64) error {
	refs, err := s.doctors.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.NewConflict("doctor has appointments on record")
	}

	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("doctor deleted", "id", id)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.doctors.Count(ctx)
}
