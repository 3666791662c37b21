package out

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pajama/internal/modules/replica/domain"
)

const (
	labelOutcome = "outcome"
	labelReason  = "reason"
)

// PrometheusMetrics records sync outcomes on its own registry. When a
// textfile path is set the registry is flushed there after each sync.
type PrometheusMetrics struct {
	registry  *prometheus.Registry
	textfile  string
	syncs     *prometheus.CounterVec
	duration  prometheus.Histogram
	lastOK    prometheus.Gauge
	entries   prometheus.Gauge
	workouts  prometheus.Gauge
	onFailure func(error)
}

func NewPrometheusMetrics(textfile string, onFailure func(error)) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pajama",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync attempts by outcome and reason.",
		}, []string{labelOutcome, labelReason}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pajama",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wall time of sync attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		lastOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pajama",
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the most recent successful sync.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pajama",
			Subsystem: "replica",
			Name:      "history_entries",
			Help:      "History entries after the last successful sync.",
		}),
		workouts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pajama",
			Subsystem: "replica",
			Name:      "custom_workout_records",
			Help:      "Custom workout records, tombstones included, after the last successful sync.",
		}),
		onFailure: onFailure,
	}
	m.registry.MustRegister(m.syncs, m.duration, m.lastOK, m.entries, m.workouts)
	return m
}

func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) ObserveSync(result domain.Result, elapsed time.Duration) {
	outcome := "failed"
	if result.OK {
		outcome = "ok"
		m.lastOK.SetToCurrentTime()
		m.entries.Set(float64(result.Counts.Entries))
		m.workouts.Set(float64(result.Counts.Workouts))
	}
	m.syncs.WithLabelValues(outcome, string(result.Reason)).Inc()
	m.duration.Observe(elapsed.Seconds())

	if m.textfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil && m.onFailure != nil {
		m.onFailure(fmt.Errorf("write metrics textfile: %w", err))
	}
}
