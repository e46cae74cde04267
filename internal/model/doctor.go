package model

import "time"

type Doctor struct {
	ID              int64     `db:"doctor_id" json:"id"`
	EmployeeID      string    `db:"employee_id" json:"employee_id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Qualification   string    `db:"qualification" json:"qualification,omitempty"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	Phone           string    `db:"phone" json:"phone,omitempty"`
	Email           string    `db:"email" json:"email,omitempty"`
	Address         string    `db:"address" json:"address,omitempty"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	Schedule        string    `db:"schedule" json:"schedule,omitempty"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

type RegisterDoctorRequest struct {
	EmployeeID      string  `validate:"required,max=32"`
	FirstName       string  `validate:"required,max=64"`
	LastName        string  `validate:"required,max=64"`
	Specialization  string  `validate:"required,max=128"`
	Qualification   string  `validate:"omitempty,max=128"`
	ExperienceYears int     `validate:"omitempty,min=0,max=80"`
	Phone           string  `validate:"omitempty,max=32"`
	Email           string  `validate:"omitempty,email"`
	Address         string  `validate:"omitempty,max=256"`
	ConsultationFee float64 `validate:"omitempty,min=0"`
	Schedule        string  `validate:"omitempty,max=256"`
}
