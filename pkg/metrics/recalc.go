package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recalculation outcome labels.
const (
	OutcomePerformed         = "performed"
	OutcomeBlockedProvenance = "blocked_provenance"
	OutcomeBlockedLoading    = "blocked_loading"
	OutcomeSkippedNoop       = "skipped_noop"
)

// RecalcMetrics records financial recalculation decisions and save latency.
type RecalcMetrics struct {
	decisions    *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
}

// NewRecalcMetrics registers the recalculation metrics on the provided registerer.
func NewRecalcMetrics(reg prometheus.Registerer) *RecalcMetrics {
	if reg == nil {
		return &RecalcMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recalc_decisions_total",
		Help: "Financial recalculation attempts by outcome.",
	}, []string{"outcome"})
	saveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prescription_save_duration_seconds",
		Help:    "Duration of prescription save transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	reg.MustRegister(decisions, saveDuration)
	return &RecalcMetrics{
		decisions:    decisions,
		saveDuration: saveDuration,
	}
}

// IncDecision increments the counter for the given recalculation outcome.
func (m *RecalcMetrics) IncDecision(outcome string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSaveDuration records the duration of one save transaction.
func (m *RecalcMetrics) ObserveSaveDuration(status string, duration time.Duration) {
	if m == nil || m.saveDuration == nil {
		return
	}
	m.saveDuration.WithLabelValues(normalizeLabel(status)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
