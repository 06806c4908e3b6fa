package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSubmissionMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSubmissionMetrics(reg)
	metrics.Observe(OutcomeSubmitted, 120*time.Millisecond)
	metrics.Observe(OutcomeSubmitted, 80*time.Millisecond)
	metrics.Observe("", time.Millisecond)
	metrics.AddLines(3)
	metrics.AddLines(0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "order_submissions_total", "outcome", OutcomeSubmitted); err != nil {
		t.Fatalf("fetch submitted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submitted=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "order_submissions_total", "outcome", "unknown"); err != nil {
		t.Fatalf("fetch unknown: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "order_submission_duration_seconds", "outcome", OutcomeSubmitted); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	mf := findMetricFamily(mfs, "order_submitted_lines_total")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("lines counter missing")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected lines=3, got %f", got)
	}
}

func TestOutboxMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxMetrics(reg)
	metrics.ObserveBatch(10 * time.Millisecond)
	metrics.IncPublished("order_batch_submitted")
	metrics.IncFailed("order_batch_submitted")
	metrics.IncTerminal("order_batch_submitted", "max_attempts")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, name := range []string{"outbox_published_total", "outbox_publish_failures_total", "outbox_dead_lettered_total"} {
		if got, err := fetchCounterValue(mfs, name, "event_type", "order_batch_submitted"); err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		} else if got != 1 {
			t.Fatalf("expected %s=1, got %f", name, got)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var submission *SubmissionMetrics
	submission.Observe(OutcomeFailed, time.Second)
	submission.AddLines(2)

	var outbox *OutboxMetrics
	outbox.ObserveBatch(time.Second)
	outbox.IncPublished("x")
	outbox.IncFailed("x")
	outbox.IncTerminal("x", "y")

	NewSubmissionMetrics(nil).Observe(OutcomeFailed, time.Second)
	NewOutboxMetrics(nil).IncPublished("x")
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
