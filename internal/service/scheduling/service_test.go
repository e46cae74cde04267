package scheduling

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
	doctors  repository.DoctorRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Provision(context.Background()))

	patientRepo := sqlite.NewPatientRepository(store)
	doctorRepo := sqlite.NewDoctorRepository(store)
	appointmentRepo := sqlite.NewAppointmentRepository(store)

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(appointmentRepo, doctorRepo, patientRepo, validator.New(), log, nil, 0)

	return &testEnv{svc: svc, patients: patientRepo, doctors: doctorRepo}
}

func (e *testEnv) addPatient(t *testing.T, nationalID string) int64 {
	t.Helper()
	id, err := e.patients.Register(context.Background(), &model.Patient{
		NationalID:  nationalID,
		FirstName:   "Pat",
		LastName:    "Ient",
		DateOfBirth: "1990-01-01",
		Gender:      "female",
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) addDoctor(t *testing.T, employeeID string, available bool) int64 {
	t.Helper()
	id, err := e.doctors.Register(context.Background(), &model.Doctor{
		EmployeeID:     employeeID,
		FirstName:      "Doc",
		LastName:       "Tor",
		Specialization: "cardiology",
		IsAvailable:    available,
	})
	require.NoError(t, err)
	return id
}

func TestScheduleRejectsDoubleBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	otherPatient := env.addPatient(t, "P-101")
	doctorID := env.addDoctor(t, "D-100", true)

	first := &model.ScheduleRequest{
		PatientID: patientID, DoctorID: doctorID,
		Date: "2026-09-10", Time: "10:30",
	}
	apptID, err := env.svc.Schedule(ctx, first)
	require.NoError(t, err)

	got, err := env.svc.Get(ctx, apptID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
	assert.Equal(t, DefaultDurationMinutes, got.DurationMinutes)

	// same (doctor, date, time) for anyone is a conflict
	second := &model.ScheduleRequest{
		PatientID: otherPatient, DoctorID: doctorID,
		Date: "2026-09-10", Time: "10:30",
	}
	_, err = env.svc.Schedule(ctx, second)
	assert.True(t, apperrors.IsConflict(err))

	// a different time is fine
	second.Time = "11:00"
	_, err = env.svc.Schedule(ctx, second)
	assert.NoError(t, err)
}

func TestConfiguredDefaultDuration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	doctorID := env.addDoctor(t, "D-100", true)

	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(env.svc.appointments, env.doctors, env.patients,
		validator.New(), log, nil, 45)

	id, err := svc.Schedule(ctx, &model.ScheduleRequest{
		PatientID: patientID, DoctorID: doctorID,
		Date: "2026-09-10", Time: "10:30",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 45, got.DurationMinutes, "configured default wins over the built-in fallback")

	// an explicit duration is never overridden
	id, err = svc.Schedule(ctx, &model.ScheduleRequest{
		PatientID: patientID, DoctorID: doctorID,
		Date: "2026-09-10", Time: "11:30", DurationMinutes: 15,
	})
	require.NoError(t, err)
	got, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 15, got.DurationMinutes)
}

func TestSlotFreesUpAfterCancellation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	doctorID := env.addDoctor(t, "D-100", true)

	req := &model.ScheduleRequest{
		PatientID: patientID, DoctorID: doctorID,
		Date: "2026-09-10", Time: "10:30",
	}
	apptID, err := env.svc.Schedule(ctx, req)
	require.NoError(t, err)

	_, err = env.svc.Schedule(ctx, req)
	require.True(t, apperrors.IsConflict(err))

	require.NoError(t, env.svc.Cancel(ctx, apptID))

	// cancelled bookings do not hold the slot
	_, err = env.svc.Schedule(ctx, req)
	assert.NoError(t, err)
}

func TestScheduleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	doctorID := env.addDoctor(t, "D-100", true)

	tests := []struct {
		name string
		req  *model.ScheduleRequest
	}{
		{"missing patient", &model.ScheduleRequest{DoctorID: doctorID, Date: "2026-09-10", Time: "10:30"}},
		{"malformed date", &model.ScheduleRequest{PatientID: patientID, DoctorID: doctorID, Date: "10/09/2026", Time: "10:30"}},
		{"impossible date", &model.ScheduleRequest{PatientID: patientID, DoctorID: doctorID, Date: "2026-02-30", Time: "10:30"}},
		{"malformed time", &model.ScheduleRequest{PatientID: patientID, DoctorID: doctorID, Date: "2026-09-10", Time: "25:99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Schedule(ctx, tt.req)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}

	_, err := env.svc.Schedule(ctx, &model.ScheduleRequest{
		PatientID: 9999, DoctorID: doctorID, Date: "2026-09-10", Time: "10:30",
	})
	assert.True(t, apperrors.IsNotFound(err), "unknown patient is not-found, got %v", err)
}

func TestStatusTransitionsAreTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	doctorID := env.addDoctor(t, "D-100", true)

	schedule := func(timeOfDay string) int64 {
		id, err := env.svc.Schedule(ctx, &model.ScheduleRequest{
			PatientID: patientID, DoctorID: doctorID,
			Date: "2026-09-10", Time: timeOfDay,
		})
		require.NoError(t, err)
		return id
	}

	completed := schedule("09:00")
	require.NoError(t, env.svc.Complete(ctx, completed))
	assert.True(t, apperrors.IsValidation(env.svc.Cancel(ctx, completed)),
		"completing then cancelling must be rejected")

	cancelled := schedule("09:30")
	require.NoError(t, env.svc.Cancel(ctx, cancelled))
	assert.True(t, apperrors.IsValidation(env.svc.Complete(ctx, cancelled)),
		"cancelled appointments must not complete")

	noShow := schedule("10:00")
	require.NoError(t, env.svc.MarkNoShow(ctx, noShow))
	assert.True(t, apperrors.IsValidation(env.svc.Complete(ctx, noShow)))

	assert.True(t, apperrors.IsNotFound(env.svc.Cancel(ctx, 4242)))
}

func TestListAvailableDoctors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addDoctor(t, "D-100", true)
	unavailable := env.addDoctor(t, "D-101", false)

	doctors, err := env.svc.ListAvailableDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.NotEqual(t, unavailable, doctors[0].ID)
}

func TestListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patientID := env.addPatient(t, "P-100")
	doctorID := env.addDoctor(t, "D-100", true)

	for _, slot := range []struct{ date, time string }{
		{"2026-09-10", "14:00"},
		{"2026-09-10", "09:00"},
		{"2026-09-11", "08:00"},
	} {
		_, err := env.svc.Schedule(ctx, &model.ScheduleRequest{
			PatientID: patientID, DoctorID: doctorID, Date: slot.date, Time: slot.time,
		})
		require.NoError(t, err)
	}

	day, err := env.svc.ListForDate(ctx, "2026-09-10")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "09:00", day[0].Time, "day listing is time ascending")
	assert.Equal(t, "Pat Ient", day[0].PatientName)
	assert.Equal(t, "Doc Tor", day[0].DoctorName)

	recent, err := env.svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2, "global listing is bounded")
	assert.Equal(t, "2026-09-11", recent[0].Date, "global listing is newest first")

	_, err = env.svc.ListForDate(ctx, "not-a-date")
	assert.True(t, apperrors.IsValidation(err))
}
