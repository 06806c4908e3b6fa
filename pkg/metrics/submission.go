package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded by SubmissionMetrics.
const (
	OutcomeSubmitted = "submitted"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomeFailed    = "failed"
)

// SubmissionMetrics tracks order batch submissions from tables.
type SubmissionMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	lines    prometheus.Counter
}

// NewSubmissionMetrics registers the submission metrics on the provided registerer.
func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	if reg == nil {
		return &SubmissionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_submission_duration_seconds",
		Help:    "Duration of order batch submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order batch submissions by outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_submitted_lines_total",
		Help: "Cart lines accepted by the order service.",
	})
	reg.MustRegister(duration, outcomes, lines)
	return &SubmissionMetrics{
		duration: duration,
		outcomes: outcomes,
		lines:    lines,
	}
}

// Observe records one submission attempt.
func (m *SubmissionMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.outcomes.WithLabelValues(label).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// AddLines counts lines carried by a successful submission.
func (m *SubmissionMetrics) AddLines(n int) {
	if m == nil || m.lines == nil || n <= 0 {
		return
	}
	m.lines.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
