package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuthOperations counts credential and session operations by outcome.
	AuthOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkshort",
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Total number of credential and session operations",
		},
		[]string{"operation", "result"},
	)

	// RefreshTokenRevocations counts logouts that revoked every refresh token
	// of an account because the presented token was not on file.
	RefreshTokenRevocations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linkshort",
			Subsystem: "auth",
			Name:      "refresh_token_mass_revocations_total",
			Help:      "Total number of accounts whose refresh tokens were all revoked on logout",
		},
	)

	// GuardDecisions counts authorization guard verdicts.
	GuardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkshort",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Total number of authorization guard decisions",
		},
		[]string{"decision"},
	)

	// IdentityCheckDuration observes remote identity verification latency.
	IdentityCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "linkshort",
			Subsystem: "guard",
			Name:      "identity_check_duration_seconds",
			Help:      "Latency of remote identity verification calls",
			Buckets:   prometheus.DefBuckets,
		},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AuthOperations,
			RefreshTokenRevocations,
			GuardDecisions,
			IdentityCheckDuration,
		)
	})
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
