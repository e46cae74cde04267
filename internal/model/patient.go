package model

import "time"

type Patient struct {
	ID               int64     `db:"patient_id" json:"id"`
	NationalID       string    `db:"national_id" json:"national_id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	DateOfBirth      string    `db:"date_of_birth" json:"date_of_birth"`
	Gender           string    `db:"gender" json:"gender"`
	Phone            string    `db:"phone" json:"phone,omitempty"`
	Email            string    `db:"email" json:"email,omitempty"`
	Address          string    `db:"address" json:"address,omitempty"`
	EmergencyContact string    `db:"emergency_contact" json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `db:"emergency_phone" json:"emergency_phone,omitempty"`
	BloodGroup       string    `db:"blood_group" json:"blood_group,omitempty"`
	Allergies        string    `db:"allergies" json:"allergies,omitempty"`
	MedicalHistory   string    `db:"medical_history" json:"medical_history,omitempty"`
	InsuranceInfo    string    `db:"insurance_info" json:"insurance_info,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type RegisterPatientRequest struct {
	NationalID       string `validate:"required,max=32"`
	FirstName        string `validate:"required,max=64"`
	LastName         string `validate:"required,max=64"`
	DateOfBirth      string `validate:"required"`
	Gender           string `validate:"required,oneof=male female other"`
	Phone            string `validate:"omitempty,max=32"`
	Email            string `validate:"omitempty,email"`
	Address          string `validate:"omitempty,max=256"`
	EmergencyContact string `validate:"omitempty,max=128"`
	EmergencyPhone   string `validate:"omitempty,max=32"`
	BloodGroup       string `validate:"omitempty,max=8"`
	Allergies        string `validate:"omitempty,max=512"`
	MedicalHistory   string `validate:"omitempty,max=2048"`
	InsuranceInfo    string `validate:"omitempty,max=256"`
}
