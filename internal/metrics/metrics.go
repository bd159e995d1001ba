package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the booking engine's counters. HTTP-level metrics live in
// the router; these count engine outcomes regardless of transport.
type Metrics struct {
	AvailabilityQueries prometheus.Counter
	BookingsCreated     prometheus.Counter
	BookingConflicts    prometheus.Counter
	RequestsApproved    prometheus.Counter
	RequestsRejected    prometheus.Counter
	ApprovalFailures    prometheus.Counter
	RemindersSent       prometheus.Counter
}

// New creates and registers the engine metrics on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid duplicate
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AvailabilityQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_availability_queries_total",
			Help: "Total number of availability queries",
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total",
			Help: "Total number of booking attempts rejected because the slot was taken",
		}),
		RequestsApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_requests_approved_total",
			Help: "Total number of service requests approved",
		}),
		RequestsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_requests_rejected_total",
			Help: "Total number of service requests rejected",
		}),
		ApprovalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_approval_failures_total",
			Help: "Total number of approvals that failed after passing validation",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_reminders_sent_total",
			Help: "Total number of reminder emails sent",
		}),
	}
	reg.MustRegister(
		m.AvailabilityQueries,
		m.BookingsCreated,
		m.BookingConflicts,
		m.RequestsApproved,
		m.RequestsRejected,
		m.ApprovalFailures,
		m.RemindersSent,
	)
	return m
}
