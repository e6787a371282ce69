package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected      *prometheus.CounterVec
	FallbackUsed  prometheus.Counter
	StoreFailures prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landledger_ratelimit_rejected_total",
			Help: "Requests rejected by the per-caller rate limiter",
		}, []string{"class"}),
		FallbackUsed: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_ratelimit_fallback_total",
			Help: "Checks answered by the in-memory fallback while the circuit is open",
		}),
		StoreFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_ratelimit_store_failures_total",
			Help: "Bucket store errors seen by the rate limiter",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackUsed.Inc()
}

func (m *Metrics) IncrementStoreFailures() {
	if m == nil {
		return
	}
	m.StoreFailures.Inc()
}
