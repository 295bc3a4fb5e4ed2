package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted        = "accepted"
	OutcomeRejected        = "rejected"
	OutcomeValidationError = "validation_error"
	OutcomeAuthError       = "auth_error"
	OutcomeSubmissionError = "submission_error"
)

// Provider call names.
const (
	CallToken = "token"
	CallPush  = "stkpush"
)

type Metrics struct {
	submissions     *prometheus.CounterVec
	tokenRefreshes  *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewMetrics registers the gateway's collectors on the given registerer.
// Taking the registerer as a parameter keeps tests isolated from each other.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stkpush_submissions_total",
			Help: "Push payment submissions by outcome.",
		}, []string{"outcome"}),
		tokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stkpush_token_refreshes_total",
			Help: "Bearer token refresh attempts by outcome.",
		}, []string{"outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stkpush_provider_request_seconds",
			Help:    "Latency of outbound provider calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"call"}),
	}
}

func (m *Metrics) SubmissionObserved(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenRefreshObserved(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ProviderCallObserved(call string, elapsed time.Duration) {
	m.providerLatency.WithLabelValues(call).Observe(elapsed.Seconds())
}
