package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  float64
		total float64
		want  PaymentStatus
	}{
		{"nothing paid", 0, 100, PaymentStatusPending},
		{"part paid", 40, 100, PaymentStatusPartial},
		{"almost paid", 99.99, 100, PaymentStatusPartial},
		{"exactly paid", 100, 100, PaymentStatusPaid},
		{"overpaid still classifies", 120, 100, PaymentStatusPaid},
		{"zero total", 0, 0, PaymentStatusPaid},
		{"drifted sum still settles", 0.1 + 0.1 + 0.1, 0.30, PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(tt.paid, tt.total))
		})
	}
}

func TestBillRemaining(t *testing.T) {
	b := Bill{TotalAmount: 100, PaidAmount: 40}
	assert.Equal(t, 60.0, b.Remaining())

	// cent precision, never raw float subtraction
	b = Bill{TotalAmount: 0.30, PaidAmount: 0.20}
	assert.Equal(t, 0.1, b.Remaining())
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 10.56, RoundCents(10.556))
	assert.Equal(t, 10.55, RoundCents(10.554))
	assert.Equal(t, 10.0, RoundCents(10.0001))
	assert.Equal(t, 0.0, RoundCents(0.004))
	assert.Equal(t, 0.3, RoundCents(0.1+0.1+0.1))
}
