package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "thermo_slots"
	subsystem = "session"

	// ResultOK labels a transition that changed the state as requested.
	ResultOK = "ok"
	// ResultWarning labels a transition that produced a warning (empty recall).
	ResultWarning = "warning"
	// ResultRejected labels an action rejected before reaching the state machine.
	ResultRejected = "rejected"
)

//nolint:gochecknoglobals // Collectors are registered once on the default registry.
var (
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "actions_total",
			Help:      "Number of user actions applied to sessions, by action and result.",
		},
		[]string{"action", "result"},
	)

	modeTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "mode_transitions_total",
			Help:      "Number of transitions between idle and saving mode, by target mode.",
		},
		[]string{"mode"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active",
			Help:      "Number of sessions currently held in memory.",
		},
	)

	expiredSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "expired_total",
			Help:      "Number of idle sessions removed by the sweeper.",
		},
	)
)

// ObserveAction counts one action with its result label.
func ObserveAction(action, result string) {
	actionsTotal.WithLabelValues(action, result).Inc()
}

// ObserveModeTransition counts a switch into mode.
func ObserveModeTransition(mode string) {
	modeTransitionsTotal.WithLabelValues(mode).Inc()
}

// SetActiveSessions records the number of live sessions.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// ObserveExpiredSessions counts sessions dropped by the sweeper.
func ObserveExpiredSessions(n int) {
	expiredSessionsTotal.Add(float64(n))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
