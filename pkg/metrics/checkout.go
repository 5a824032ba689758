package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics records the outcomes of checkout attempts.
type CheckoutMetrics struct {
	outcomes        *prometheus.CounterVec
	amounts         *prometheus.HistogramVec
	reconciliations prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	amounts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_amount_due",
		Help:    "Amount due at the start of each checkout attempt.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
	}, []string{"plan"})
	reconciliations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_reconciliation_failures_total",
		Help: "Payments captured whose order could not be recorded.",
	})
	reg.MustRegister(outcomes, amounts, reconciliations)
	return &CheckoutMetrics{
		outcomes:        outcomes,
		amounts:         amounts,
		reconciliations: reconciliations,
	}
}

// IncOutcome increments the attempt counter for a terminal outcome.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveAmountDue records the amount collected online for the given plan.
func (c *CheckoutMetrics) ObserveAmountDue(plan string, amount decimal.Decimal) {
	if c == nil || c.amounts == nil {
		return
	}
	value, _ := amount.Float64()
	c.amounts.WithLabelValues(normalizeLabel(plan)).Observe(value)
}

// IncReconciliationFailure counts a captured payment with no persisted order.
func (c *CheckoutMetrics) IncReconciliationFailure() {
	if c == nil || c.reconciliations == nil {
		return
	}
	c.reconciliations.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
