package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questpath_login_attempts_total",
			Help: "Login attempts by method and outcome",
		},
		[]string{"method", "result"},
	)
	QuestsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questpath_quests_completed_total",
			Help: "Quest completions that awarded XP",
		},
	)
	DuplicateCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questpath_duplicate_completions_total",
			Help: "Completion requests ignored because the quest was already completed or in flight",
		},
	)
	XPAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questpath_xp_awarded_total",
			Help: "Experience points awarded by the quest ledger",
		},
	)
	LevelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "questpath_level_ups_total",
			Help: "Completions that moved a player to a new level",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to reg. Call it once from main.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			LoginAttempts,
			QuestsCompleted,
			DuplicateCompletions,
			XPAwarded,
			LevelUps,
		)
	})
}
