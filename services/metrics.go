package services

import "github.com/prometheus/client_golang/prometheus"

var (
	streakUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_updates_total",
			Help: "Streak follow-up updates by domain and result",
		},
		[]string{"domain", "result"},
	)
	badgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Badges appended to streak records",
		},
		[]string{"badge", "source"},
	)
	pushSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notifications by type and result",
		},
		[]string{"type", "result"},
	)
)

// RegisterMetrics registers the service-level collectors. Call once from main.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(streakUpdatesTotal, badgesAwardedTotal, pushSentTotal)
}
