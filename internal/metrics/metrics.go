package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarksTotal counts attendance records created.
	MarksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattend",
		Name:      "attendance_marks_total",
		Help:      "Total number of attendance records created",
	})

	// DuplicateMarksTotal counts same-day marks answered idempotently.
	DuplicateMarksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattend",
		Name:      "attendance_duplicate_marks_total",
		Help:      "Total number of already-marked attendance responses",
	})

	// LoginsTotal counts successful logins.
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattend",
		Name:      "logins_total",
		Help:      "Total number of successful logins",
	})

	// RegistrationsTotal counts account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattend",
		Name:      "registrations_total",
		Help:      "Total number of account registrations",
	})

	// NotificationsEnqueued counts mail jobs published to the queue.
	NotificationsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "faceattend",
		Name:      "notifications_enqueued_total",
		Help:      "Total number of mail notifications enqueued",
	})
)
