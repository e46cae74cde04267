package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-core/internal/model"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) (int64, error)
	Get(ctx context.Context, id int64) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetByCredentials(ctx context.Context, username, digest string) (*model.Account, error)
	ReplaceDigest(ctx context.Context, id int64, oldDigest, newDigest string) (bool, error)
	UpdateProfile(ctx context.Context, account *model.Account) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Account, error)
}

type PatientRepository interface {
	Register(ctx context.Context, patient *model.Patient) (int64, error)
	Get(ctx context.Context, id int64) (*model.Patient, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Patient, error)
	Search(ctx context.Context, term string) ([]*model.Patient, error)
	Count(ctx context.Context) (int64, error)
	CountReferences(ctx context.Context, id int64) (int64, error)
}

type DoctorRepository interface {
	Register(ctx context.Context, doctor *model.Doctor) (int64, error)
	Get(ctx context.Context, id int64) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Doctor, error)
	ListAvailable(ctx context.Context) ([]*model.Doctor, error)
	Count(ctx context.Context) (int64, error)
	CountReferences(ctx context.Context, id int64) (int64, error)
}

type AppointmentRepository interface {
	// Schedule performs the slot-conflict check and the insert in one
	// transaction; a taken (doctor, date, time) slot yields a conflict error.
	Schedule(ctx context.Context, appt *model.Appointment) (int64, error)
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	// Transition moves an appointment to next, rejecting moves the status
	// transition table forbids.
	Transition(ctx context.Context, id int64, next model.AppointmentStatus) error
	CountActiveAt(ctx context.Context, doctorID int64, date, timeOfDay string) (int64, error)
	ListForDate(ctx context.Context, date string) ([]*model.AppointmentDetail, error)
	ListForDoctorDate(ctx context.Context, doctorID int64, date string) ([]*model.AppointmentDetail, error)
	ListRecent(ctx context.Context, limit int) ([]*model.AppointmentDetail, error)
}

type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) (int64, error)
	Get(ctx context.Context, id int64) (*model.Bill, error)
	// ApplyPayment loads, checks and updates the bill in one transaction and
	// returns the bill as persisted.
	ApplyPayment(ctx context.Context, id int64, amount float64, method string) (*model.Bill, error)
	ListForPatient(ctx context.Context, patientID int64) ([]*model.Bill, error)
	OutstandingTotal(ctx context.Context) (float64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
	PendingCount(ctx context.Context) (int64, error)
	ListOverdue(ctx context.Context, today string) ([]*model.Bill, error)
}

type MedicalRecordRepository interface {
	Add(ctx context.Context, record *model.MedicalRecord) (int64, error)
	ListForPatient(ctx context.Context, patientID int64) ([]*model.MedicalRecord, error)
}
