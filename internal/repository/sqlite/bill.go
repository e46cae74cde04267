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

type billRepository struct {
	store *Store
}

func NewBillRepository(store *Store) repository.BillRepository {
	return &billRepository{store: store}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) (int64, error) {
	bill.BillDate = time.Now().UTC()
	bill.PaidAmount = 0
	bill.PaymentStatus = model.PaymentStatusPending

	id, err := r.store.Insert(ctx,
		`INSERT INTO billing (
			patient_id, appointment_id, total_amount, paid_amount,
			payment_status, payment_method, bill_date, due_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.PatientID, bill.AppointmentID, bill.TotalAmount, bill.PaidAmount,
		bill.PaymentStatus, bill.PaymentMethod, bill.BillDate, bill.DueDate, bill.Notes)
	if err != nil {
		return 0, err
	}
	bill.ID = id
	return id, nil
}

func (r *billRepository) Get(ctx context.Context, id int64) (*model.Bill, error) {
	var bill model.Bill
	err := r.store.Get(ctx, &bill, `SELECT * FROM billing WHERE bill_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("bill")
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// ApplyPayment loads the bill, checks the amount against the remaining
// balance and persists the new totals, all in one transaction. Overpayment
// is rejected outright; there is no clamping. Amounts are compared and
// accumulated at cent precision.
func (r *billRepository) ApplyPayment(ctx context.Context, id int64, amount float64, method string) (*model.Bill, error) {
	amount = model.RoundCents(amount)

	var bill model.Bill
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &bill, `SELECT * FROM billing WHERE bill_id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFound("bill")
		}
		if err != nil {
			return persistence(err)
		}

		if amount > bill.Remaining() {
			return apperrors.NewValidationf(
				"payment of %.2f exceeds remaining balance %.2f", amount, bill.Remaining())
		}

		bill.PaidAmount = model.RoundCents(bill.PaidAmount + amount)
		bill.PaymentStatus = model.DerivePaymentStatus(bill.PaidAmount, bill.TotalAmount)
		bill.PaymentMethod = method

		if _, err := tx.ExecContext(ctx,
			`UPDATE billing SET paid_amount = ?, payment_status = ?, payment_method = ?
			 WHERE bill_id = ?`,
			bill.PaidAmount, bill.PaymentStatus, bill.PaymentMethod, bill.ID); err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) ListForPatient(ctx context.Context, patientID int64) ([]*model.Bill, error) {
	var bills []*model.Bill
	err := r.store.Select(ctx, &bills,
		`SELECT * FROM billing WHERE patient_id = ? ORDER BY bill_date DESC`, patientID)
	return bills, err
}

func (r *billRepository) OutstandingTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.store.Get(ctx, &total,
		`SELECT COALESCE(SUM(total_amount - paid_amount), 0) FROM billing
		 WHERE payment_status != ?`, model.PaymentStatusPaid)
	return total, err
}

func (r *billRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.store.Get(ctx, &total,
		`SELECT COALESCE(SUM(paid_amount), 0) FROM billing`)
	return total, err
}

func (r *billRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.store.Get(ctx, &total,
		`SELECT COALESCE(SUM(paid_amount), 0) FROM billing WHERE bill_date >= ?`, since)
	return total, err
}

func (r *billRepository) PendingCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Get(ctx, &n,
		`SELECT COUNT(*) FROM billing WHERE payment_status = ?`, model.PaymentStatusPending)
	return n, err
}

func (r *billRepository) ListOverdue(ctx context.Context, today string) ([]*model.Bill, error) {
	var bills []*model.Bill
	err := r.store.Select(ctx, &bills,
		`SELECT * FROM billing
		 WHERE due_date IS NOT NULL AND due_date < ? AND payment_status != ?
		 ORDER BY due_date ASC`, today, model.PaymentStatusPaid)
	return bills, err
}
