package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics provides observability for the insurance module.
// Tracks sales, risk additions, premium written and rejections by kind.
type Metrics struct {
	PoliciesSold       prometheus.Counter
	RisksAdded         prometheus.Counter
	RisksCatalogued    prometheus.Counter
	PremiumWritten     prometheus.Counter
	Rejections         *prometheus.CounterVec
	SellPolicyDuration prometheus.Histogram
}

// New registers the insurance metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PoliciesSold: factory.NewCounter(prometheus.CounterOpts{
			Name: "insurer_policies_sold_total",
			Help: "Total number of policies sold",
		}),
		RisksAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "insurer_risks_added_total",
			Help: "Total number of risks added to existing policies",
		}),
		RisksCatalogued: factory.NewCounter(prometheus.CounterOpts{
			Name: "insurer_catalog_risks_added_total",
			Help: "Total number of risks added to the catalog",
		}),
		PremiumWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "insurer_premium_written",
			Help: "Premium written by sales and risk additions",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "insurer_rejections_total",
			Help: "Rejected operations by operation and error kind",
		}, []string{"operation", "kind"}),
		SellPolicyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "insurer_sell_policy_duration_seconds",
			Help:    "Duration of SellPolicy operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// IncrementPolicySold records a sale and the premium it wrote.
func (m *Metrics) IncrementPolicySold(premium decimal.Decimal) {
	m.PoliciesSold.Inc()
	m.PremiumWritten.Add(premium.InexactFloat64())
}

// IncrementRiskAdded records a mid-term risk addition and its premium increment.
func (m *Metrics) IncrementRiskAdded(increment decimal.Decimal) {
	m.RisksAdded.Inc()
	m.PremiumWritten.Add(increment.InexactFloat64())
}

func (m *Metrics) IncrementRiskCatalogued() {
	m.RisksCatalogued.Inc()
}

func (m *Metrics) IncrementRejection(operation, kind string) {
	m.Rejections.WithLabelValues(operation, kind).Inc()
}

// ObserveSellPolicy records the duration of a SellPolicy operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSellPolicy(start time.Time) {
	m.SellPolicyDuration.Observe(time.Since(start).Seconds())
}
