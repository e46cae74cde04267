package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Authentication
	Logins         *prometheus.CounterVec
	ActiveSessions prometheus.Gauge

	// Scheduling
	AppointmentsScheduled prometheus.Counter
	BookingConflicts      prometheus.Counter

	// Billing
	PaymentsRecorded prometheus.Counter
	PaymentsRejected prometheus.Counter

	// Store
	StoreOperations *prometheus.CounterVec
}

// New creates all application metrics on a private registry so repeated
// construction in tests never double-registers collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of authentication attempts",
		}, []string{"status"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Current number of live sessions",
		}),
		AppointmentsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_scheduled_total",
			Help:      "Total number of appointments booked",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected for a taken slot",
		}),
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Total number of payments applied to bills",
		}),
		PaymentsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_rejected_total",
			Help:      "Total number of payments rejected by validation",
		}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		}, []string{"operation", "status"}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		m.Logins,
		m.ActiveSessions,
		m.AppointmentsScheduled,
		m.BookingConflicts,
		m.PaymentsRecorded,
		m.PaymentsRejected,
		m.StoreOperations,
	)

	return m
}
