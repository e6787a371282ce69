package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the property registry.
type Metrics struct {
	PropertiesRegistered prometheus.Counter
	Resolutions          *prometheus.CounterVec
	StakeForfeited       prometheus.Counter
	VerifyDuration       prometheus.Histogram
}

// New registers the registry metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PropertiesRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_properties_registered_total",
			Help: "Total number of properties registered",
		}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landledger_property_resolutions_total",
			Help: "Property resolutions by outcome (tokenized, rejected, slashed)",
		}, []string{"outcome"}),
		StakeForfeited: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_stake_forfeited_units_total",
			Help: "Payment units forfeited to the treasury by slashing",
		}),
		VerifyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "landledger_verify_property_duration_seconds",
			Help:    "Duration of VerifyProperty, including token issuance",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	if m == nil {
		return
	}
	m.PropertiesRegistered.Inc()
}

func (m *Metrics) IncrementResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddForfeited(units uint64) {
	if m == nil {
		return
	}
	m.StakeForfeited.Add(float64(units))
}

// ObserveVerify records the duration of a VerifyProperty call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveVerify(start time.Time) {
	if m == nil {
		return
	}
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}
