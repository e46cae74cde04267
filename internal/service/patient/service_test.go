package patient

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository/sqlite"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

func newTestService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Provision(context.Background()))

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewService(sqlite.NewPatientRepository(store), validator.New(), log), store
}

func register(t *testing.T, svc *Service, nationalID string) int64 {
	t.Helper()
	id, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		NationalID:  nationalID,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "1985-12-10",
		Gender:      "female",
	})
	require.NoError(t, err)
	return id
}

func TestRegisterRejectsDuplicateNationalID(t *testing.T) {
	svc, _ := newTestService(t)

	register(t, svc, "N-100")
	_, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		NationalID:  "N-100",
		FirstName:   "Someone",
		LastName:    "Else",
		DateOfBirth: "1990-01-01",
		Gender:      "male",
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		NationalID:  "N-100",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "10/12/1985",
		Gender:      "female",
	})
	assert.True(t, apperrors.IsValidation(err), "malformed birth date must be rejected")
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "N-100")

	doctorID, err := sqlite.NewDoctorRepository(store).Register(ctx, &model.Doctor{
		EmployeeID: "D-100", FirstName: "Doc", LastName: "Tor",
		Specialization: "cardiology", IsAvailable: true,
	})
	require.NoError(t, err)
	_, err = sqlite.NewAppointmentRepository(store).Schedule(ctx, &model.Appointment{
		PatientID: id, DoctorID: doctorID,
		Date: "2026-09-10", Time: "10:30", DurationMinutes: 30,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, id)
	assert.True(t, apperrors.IsConflict(err), "referenced patients never cascade")

	_, err = svc.Get(ctx, id)
	assert.NoError(t, err, "refused delete must leave the row")
}

func TestDeleteUnreferencedPatient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "N-100")

	require.NoError(t, svc.Delete(ctx, id))
	_, err := svc.Get(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, "N-100")

	_, err := svc.Register(ctx, &model.RegisterPatientRequest{
		NationalID:  "N-200",
		FirstName:   "Grace",
		LastName:    "Hopper",
		DateOfBirth: "1986-12-09",
		Gender:      "female",
	})
	require.NoError(t, err)

	matches, err := svc.Search(ctx, "love")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ada Lovelace", matches[0].FullName())

	byID, err := svc.Search(ctx, "N-200")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Grace Hopper", byID[0].FullName())

	// an empty term degrades to the full listing
	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
