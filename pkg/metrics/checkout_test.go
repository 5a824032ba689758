package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)

	metrics.IncOutcome("succeeded")
	metrics.IncOutcome("dismissed")
	metrics.ObserveAmountDue("full_online", decimal.RequireFromString("1402.92"))
	metrics.IncReconciliationFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_attempts_total", "outcome", "succeeded"); err != nil {
		t.Fatalf("fetch succeeded: %v", err)
	} else if got != 1 {
		t.Fatalf("expected succeeded=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_attempts_total", "outcome", "dismissed"); err != nil {
		t.Fatalf("fetch dismissed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dismissed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_amount_due", "plan", "full_online"); err != nil {
		t.Fatalf("fetch amount: %v", err)
	} else if got <= 1402 || got >= 1403 {
		t.Fatalf("expected amount sum near 1402.92, got %f", got)
	}

	mf := findMetricFamily(mfs, "checkout_reconciliation_failures_total")
	if mf == nil {
		t.Fatalf("reconciliation counter not found")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected reconciliation=1, got %f", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var metrics *CheckoutMetrics
	metrics.IncOutcome("succeeded")
	metrics.ObserveAmountDue("full_online", decimal.Zero)
	metrics.IncReconciliationFailure()

	empty := NewCheckoutMetrics(nil)
	empty.IncOutcome("failed")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
