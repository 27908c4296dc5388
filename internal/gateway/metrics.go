package gateway

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the dispatcher's Prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg. A nil reg creates unregistered
// collectors, which is what tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "llm_gateway",
			Name:      "chat_requests_total",
			Help:      "Chat requests dispatched, by provider, stream mode and outcome.",
		}, []string{"provider", "stream", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "llm_gateway",
			Name:      "chat_dispatch_seconds",
			Help:      "Time until the provider returned a payload or its first stream chunk.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "stream"}),
	}
}

func (m *Metrics) observe(provider string, stream bool, outcome string, seconds float64) {
	s := strconv.FormatBool(stream)
	m.requests.WithLabelValues(provider, s, outcome).Inc()
	m.duration.WithLabelValues(provider, s).Observe(seconds)
}
