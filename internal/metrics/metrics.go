package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	slotCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "slot_created_total",
			Help:      "Count of slots created by origin.",
		},
		[]string{"origin"},
	)

	slotDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "slot_deleted_total",
			Help:      "Count of slots deleted by members.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "booking_rejected_total",
			Help:      "Count of booking attempts rejected by validation.",
		},
		[]string{"reason"},
	)

	templateApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "template_applied_total",
			Help:      "Count of monthly template applications.",
		},
	)

	reminderSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "reminder_sent_total",
			Help:      "Count of quota reminders sent.",
		},
	)

	availabilityRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creneau",
			Name:      "availability_requests_total",
			Help:      "Count of availability API requests by cache outcome.",
		},
		[]string{"cache"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(slotCreated, slotDeleted, bookingRejected,
			templateApplied, reminderSent, availabilityRequests)
	})
}

// Origins for IncSlotCreated.
const (
	OriginManual   = "manual"
	OriginTemplate = "template"
)

func IncSlotCreated(origin string) {
	slotCreated.WithLabelValues(origin).Inc()
}

func IncSlotDeleted() {
	slotDeleted.Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncTemplateApplied() {
	templateApplied.Inc()
}

func IncReminderSent() {
	reminderSent.Inc()
}

func IncAvailabilityRequest(cache string) {
	availabilityRequests.WithLabelValues(cache).Inc()
}
