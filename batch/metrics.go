package batch

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters of one runner, kept in their own registry.
type Metrics struct {
	registry    *prometheus.Registry
	lookups     *prometheus.CounterVec
	duration    prometheus.Histogram
	filesOpened prometheus.Counter
}

// NewMetrics creates and registers the runner metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gamegraph",
			Subsystem: "reconcile",
			Name:      "lookups_total",
			Help:      "Reconciliation lookups by outcome and matching strategy.",
		}, []string{"outcome", "strategy"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gamegraph",
			Subsystem: "reconcile",
			Name:      "lookup_duration_seconds",
			Help:      "Wall time of one reconciliation lookup including fallbacks.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		filesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gamegraph",
			Subsystem: "batch",
			Name:      "files_opened_total",
			Help:      "Batch files opened for writing.",
		}),
	}
	m.registry.MustRegister(m.lookups, m.duration, m.filesOpened)
	return m
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
