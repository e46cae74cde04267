package billing

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

const dateLayout = "2006-01-02"

type Service struct {
	bills    repository.BillRepository
	patients repository.PatientRepository
	validate validator.Validator
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(bills repository.BillRepository, patients repository.PatientRepository,
	validate validator.Validator, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		bills:    bills,
		patients: patients,
		validate: validate,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// CreateBill opens a bill with nothing paid and a pending status.
func (s *Service) CreateBill(ctx context.Context, req *model.CreateBillRequest) (int64, error) {
	if err := s.validate.Validate(req); err != nil {
		return 0, apperrors.NewValidation(err.Error())
	}
	if req.DueDate != "" {
		if _, err := time.Parse(dateLayout, req.DueDate); err != nil {
			return 0, apperrors.NewValidationf("invalid due date %q, expected YYYY-MM-DD", req.DueDate)
		}
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return 0, err
	}

	bill := &model.Bill{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		TotalAmount:   model.RoundCents(req.TotalAmount),
		Notes:         req.Notes,
	}
	if req.DueDate != "" {
		due := req.DueDate
		bill.DueDate = &due
	}

	id, err := s.bills.Create(ctx, bill)
	if err != nil {
		return 0, err
	}

	s.logger.Info("bill created", "id", id, "patient_id", req.PatientID, "total", bill.TotalAmount)
	return id, nil
}

// RecordPayment applies a payment to the bill. The amount must be positive
// and must not exceed the remaining balance; the new payment status derives
// purely from the accumulated amounts.
func (s *Service) RecordPayment(ctx context.Context, billID int64, amount float64, method string) error {
	amount = model.RoundCents(amount)
	if amount <= 0 {
		s.countRejected()
		return apperrors.NewValidation("payment amount must be positive")
	}

	bill, err := s.bills.ApplyPayment(ctx, billID, amount, method)
	if err != nil {
		if apperrors.IsValidation(err) {
			s.countRejected()
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}
	s.logger.Info("payment recorded",
		"bill_id", billID, "amount", amount, "status", string(bill.PaymentStatus))
	return nil
}

func (s *Service) GetBill(ctx context.Context, id int64) (*model.Bill, error) {
	return s.bills.Get(ctx, id)
}

func (s *Service) ListForPatient(ctx context.Context, patientID int64) ([]*model.Bill, error) {
	return s.bills.ListForPatient(ctx, patientID)
}

// OutstandingTotal sums the unpaid balance over every bill not fully paid.
func (s *Service) OutstandingTotal(ctx context.Context) (float64, error) {
	return s.bills.OutstandingTotal(ctx)
}

// TotalRevenue is the sum of every amount ever paid.
func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	return s.bills.TotalRevenue(ctx)
}

// MonthRevenue is the paid sum over bills dated in the current month.
func (s *Service) MonthRevenue(ctx context.Context) (float64, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.bills.RevenueSince(ctx, monthStart)
}

func (s *Service) PendingCount(ctx context.Context) (int64, error) {
	return s.bills.PendingCount(ctx)
}

// ListOverdue returns bills past their due date and not fully paid.
func (s *Service) ListOverdue(ctx context.Context) ([]*model.Bill, error) {
	return s.bills.ListOverdue(ctx, s.now().UTC().Format(dateLayout))
}

func (s *Service) countRejected() {
	if s.metrics != nil {
		s.metrics.PaymentsRejected.Inc()
	}
}
