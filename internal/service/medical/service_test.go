package medical

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

func newTestService(t *testing.T) (*Service, int64, int64) {
	t.Helper()

	store, err := sqlite.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Provision(ctx))

	patientRepo := sqlite.NewPatientRepository(store)
	doctorRepo := sqlite.NewDoctorRepository(store)

	patientID, err := patientRepo.Register(ctx, &model.Patient{
		NationalID: "N-100", FirstName: "Pat", LastName: "Ient",
		DateOfBirth: "1990-01-01", Gender: "female",
	})
	require.NoError(t, err)
	doctorID, err := doctorRepo.Register(ctx, &model.Doctor{
		EmployeeID: "D-100", FirstName: "Doc", LastName: "Tor",
		Specialization: "cardiology", IsAvailable: true,
	})
	require.NoError(t, err)

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(sqlite.NewMedicalRecordRepository(store),
		patientRepo, doctorRepo, validator.New(), log)
	return svc, patientID, doctorID
}

func TestAddRecordAndHistory(t *testing.T) {
	svc, patientID, doctorID := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddRecord(ctx, &model.AddRecordRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		Symptoms:  "chest pain",
		Diagnosis: "angina",
	})
	require.NoError(t, err)

	second, err := svc.AddRecord(ctx, &model.AddRecordRequest{
		PatientID:    patientID,
		DoctorID:     doctorID,
		Diagnosis:    "follow-up, stable",
		FollowUpDate: "2026-10-01",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	records, err := svc.History(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, patientID, r.PatientID)
		assert.False(t, r.VisitDate.IsZero())
	}
}

func TestAddRecordValidation(t *testing.T) {
	svc, patientID, doctorID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, &model.AddRecordRequest{
		PatientID: patientID, DoctorID: doctorID, FollowUpDate: "next week",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AddRecord(ctx, &model.AddRecordRequest{
		PatientID: 9999, DoctorID: doctorID,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHistoryUnknownPatient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.History(context.Background(), 9999)
	assert.True(t, apperrors.IsNotFound(err))
}
