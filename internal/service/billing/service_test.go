package billing

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	"github.com/jwalitptl/clinic-core/internal/repository/sqlite"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

type testEnv struct {
	svc      *Service
	patients repository.PatientRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Provision(context.Background()))

	patientRepo := sqlite.NewPatientRepository(store)
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(sqlite.NewBillRepository(store), patientRepo, validator.New(), log, nil)

	return &testEnv{svc: svc, patients: patientRepo}
}

func (e *testEnv) addPatient(t *testing.T) int64 {
	t.Helper()
	id, err := e.patients.Register(context.Background(), &model.Patient{
		NationalID:  "P-100",
		FirstName:   "Pat",
		LastName:    "Ient",
		DateOfBirth: "1990-01-01",
		Gender:      "female",
	})
	require.NoError(t, err)
	return id
}

func TestPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	billID, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 100.00,
	})
	require.NoError(t, err)

	bill, err := env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, bill.PaymentStatus)
	assert.Equal(t, 0.0, bill.PaidAmount)
	assert.Equal(t, 100.0, bill.Remaining())

	require.NoError(t, env.svc.RecordPayment(ctx, billID, 40.00, "cash"))
	bill, err = env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, bill.PaymentStatus)
	assert.Equal(t, 40.0, bill.PaidAmount)

	require.NoError(t, env.svc.RecordPayment(ctx, billID, 60.00, "card"))
	bill, err = env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, bill.PaymentStatus)
	assert.Equal(t, 100.0, bill.PaidAmount)

	// a settled bill takes no further money
	err = env.svc.RecordPayment(ctx, billID, 1.00, "cash")
	assert.True(t, apperrors.IsValidation(err))

	bill, err = env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, bill.PaidAmount, "rejected payment must not change the ledger")
	assert.Equal(t, model.PaymentStatusPaid, bill.PaymentStatus)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	billID, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 50.00,
	})
	require.NoError(t, err)

	err = env.svc.RecordPayment(ctx, billID, 50.01, "cash")
	assert.True(t, apperrors.IsValidation(err))

	bill, err := env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.PaidAmount)
	assert.Equal(t, model.PaymentStatusPending, bill.PaymentStatus)
}

func TestRecordPaymentRejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	billID, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 50.00,
	})
	require.NoError(t, err)

	for _, amount := range []float64{0, -10, 0.004} {
		err := env.svc.RecordPayment(ctx, billID, amount, "cash")
		assert.True(t, apperrors.IsValidation(err), "amount %v must be rejected", amount)
	}
}

func TestRecordPaymentUnknownBill(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.RecordPayment(context.Background(), 424242, 10.00, "cash")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateBillValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	_, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 0,
	})
	assert.True(t, apperrors.IsValidation(err), "zero total must be rejected")

	_, err = env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 10,
		DueDate:     "soon",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   9999,
		TotalAmount: 10,
	})
	assert.True(t, apperrors.IsNotFound(err), "unknown patient is not-found")
}

func TestAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	first, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 100.00,
	})
	require.NoError(t, err)
	second, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 30.00,
	})
	require.NoError(t, err)

	_, err = env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 25.00,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.RecordPayment(ctx, first, 40.00, "cash"))
	require.NoError(t, env.svc.RecordPayment(ctx, second, 30.00, "card"))

	// partial 60 remaining on the first bill plus the untouched 25
	outstanding, err := env.svc.OutstandingTotal(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, outstanding, 0.001)

	revenue, err := env.svc.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, revenue, 0.001)

	// partially paid bills are no longer pending
	pending, err := env.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	bills, err := env.svc.ListForPatient(ctx, patientID)
	require.NoError(t, err)
	assert.Len(t, bills, 3)
}

func TestListOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	overdue, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 100.00, DueDate: "2020-01-01",
	})
	require.NoError(t, err)

	// due in the future, must not show up
	_, err = env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 100.00, DueDate: "2999-01-01",
	})
	require.NoError(t, err)

	// past due but settled, must not show up either
	settled, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID: patientID, TotalAmount: 20.00, DueDate: "2020-01-01",
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.RecordPayment(ctx, settled, 20.00, "cash"))

	bills, err := env.svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, overdue, bills[0].ID)
}

func TestInstallmentsSettleAtCentPrecision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t)

	billID, err := env.svc.CreateBill(ctx, &model.CreateBillRequest{
		PatientID:   patientID,
		TotalAmount: 0.30,
	})
	require.NoError(t, err)

	// 0.10 + 0.10 accumulates float drift; the final 0.10 is still exactly
	// the displayed remaining balance and must settle the bill
	for i := 0; i < 3; i++ {
		require.NoError(t, env.svc.RecordPayment(ctx, billID, 0.10, "cash"))
	}

	bill, err := env.svc.GetBill(ctx, billID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, bill.PaymentStatus)
	assert.Equal(t, 0.0, bill.Remaining())
}
