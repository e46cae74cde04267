package model

import (
	"math"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// RoundCents normalizes a money amount to cent precision. Every ledger
// comparison goes through it so binary-float drift from accumulated
// payments never shifts a classification.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// DerivePaymentStatus is the pure classification of a bill from its amounts.
func DerivePaymentStatus(paid, total float64) PaymentStatus {
	switch {
	case RoundCents(paid) >= RoundCents(total):
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

type Bill struct {
	ID            int64         `db:"bill_id" json:"id"`
	PatientID     int64         `db:"patient_id" json:"patient_id"`
	AppointmentID *int64        `db:"appointment_id" json:"appointment_id,omitempty"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	PaidAmount    float64       `db:"paid_amount" json:"paid_amount"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentMethod string        `db:"payment_method" json:"payment_method,omitempty"`
	BillDate      time.Time     `db:"bill_date" json:"bill_date"`
	DueDate       *string       `db:"due_date" json:"due_date,omitempty"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
}

// Remaining is the balance still owed on the bill, at cent precision.
func (b *Bill) Remaining() float64 {
	return RoundCents(b.TotalAmount - b.PaidAmount)
}

type CreateBillRequest struct {
	PatientID     int64   `validate:"required,gt=0"`
	AppointmentID *int64  `validate:"omitempty,gt=0"`
	TotalAmount   float64 `validate:"required,gt=0"`
	DueDate       string  `validate:"omitempty"`
	Notes         string  `validate:"omitempty,max=1000"`
}
