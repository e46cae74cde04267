package model

import "time"

type MedicalRecord struct {
	ID           int64     `db:"record_id" json:"id"`
	PatientID    int64     `db:"patient_id" json:"patient_id"`
	DoctorID     int64     `db:"doctor_id" json:"doctor_id"`
	VisitDate    time.Time `db:"visit_date" json:"visit_date"`
	Symptoms     string    `db:"symptoms" json:"symptoms,omitempty"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription string    `db:"prescription" json:"prescription,omitempty"`
	LabTests     string    `db:"lab_tests" json:"lab_tests,omitempty"`
	FollowUpDate *string   `db:"follow_up_date" json:"follow_up_date,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
}

type AddRecordRequest struct {
	PatientID    int64  `validate:"required,gt=0"`
	DoctorID     int64  `validate:"required,gt=0"`
	Symptoms     string `validate:"omitempty,max=2048"`
	Diagnosis    string `validate:"omitempty,max=2048"`
	Prescription string `validate:"omitempty,max=2048"`
	LabTests     string `validate:"omitempty,max=1024"`
	FollowUpDate string `validate:"omitempty"`
	Notes        string `validate:"omitempty,max=1000"`
}
