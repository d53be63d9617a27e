// Package metrics holds the Prometheus instruments for reminder generation
// and dispatch. Collectors are registered with the global registry, so the
// promhttp handler mounted at /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

var (
	RemindersGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailcrew_reminders_generated_total",
			Help: "Cumulative number of permit reminders created.",
		})

	RemindersSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailcrew_reminders_skipped_total",
			Help: "Cumulative number of sites skipped during reminder generation, by reason.",
		}, []string{"reason"})

	ReminderDispatch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailcrew_reminder_dispatch_total",
			Help: "Cumulative number of due reminders processed, by outcome.",
		}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		RemindersGenerated,
		RemindersSkipped,
		ReminderDispatch,
	)
}
