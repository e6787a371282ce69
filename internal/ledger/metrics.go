package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks ledger transaction outcomes and latency.
type Metrics struct {
	TxDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TxDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landledger_tx_duration_seconds",
			Help:    "Duration of ledger transactions by backend and outcome",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"backend", "outcome"}),
	}
}

// ObserveTx is a no-op on a nil receiver.
func (m *Metrics) ObserveTx(backend, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.TxDuration.WithLabelValues(backend, outcome).Observe(time.Since(start).Seconds())
}
