package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the primary market.
type Metrics struct {
	SalesStarted      prometheus.Counter
	SalesFinalized    prometheus.Counter
	TokensSold        prometheus.Counter
	Proceeds          prometheus.Counter
	PurchasesRejected *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SalesStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_sales_started_total",
			Help: "Total number of primary sales started",
		}),
		SalesFinalized: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_sales_finalized_total",
			Help: "Total number of primary sales finalized",
		}),
		TokensSold: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_tokens_sold_units_total",
			Help: "Token units sold across all primary sales",
		}),
		Proceeds: f.NewCounter(prometheus.CounterOpts{
			Name: "landledger_sale_proceeds_units_total",
			Help: "Payment units collected by primary sales",
		}),
		PurchasesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landledger_purchases_rejected_total",
			Help: "Rejected purchases by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementStarted() {
	if m == nil {
		return
	}
	m.SalesStarted.Inc()
}

func (m *Metrics) IncrementFinalized() {
	if m == nil {
		return
	}
	m.SalesFinalized.Inc()
}

func (m *Metrics) RecordPurchase(amount, cost uint64) {
	if m == nil {
		return
	}
	m.TokensSold.Add(float64(amount))
	m.Proceeds.Add(float64(cost))
}

func (m *Metrics) IncrementRejected(code string) {
	if m == nil {
		return
	}
	m.PurchasesRejected.WithLabelValues(code).Inc()
}
