// Package metrics records check statistics in Prometheus format.
//
// A CLI run is short-lived, so metrics are not served over HTTP. They are
// written once at the end of a run to a file suitable for the node_exporter
// textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder defines the interface for recording check metrics.
type Recorder interface {
	// RecordFetch records a metadata lookup.
	RecordFetch(origin string, err error, duration time.Duration)

	// RecordVerdict records a produced verdict.
	RecordVerdict(status, source string)

	// RecordRun records a completed run.
	RecordRun(target string, duration time.Duration)
}

// PrometheusRecorder collects metrics into its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	verdicts      *prometheus.CounterVec
	runDuration   *prometheus.GaugeVec
	lastRun       prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder with all metrics registered.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,

		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pyupgradecheck_metadata_fetch_total",
			Help: "Metadata lookups by origin and result",
		}, []string{"origin", "result"}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pyupgradecheck_metadata_fetch_duration_seconds",
			Help:    "Duration of metadata lookups by origin",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"origin"}),

		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pyupgradecheck_verdicts_total",
			Help: "Verdicts by status and evidence source",
		}, []string{"status", "source"}),

		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pyupgradecheck_run_duration_seconds",
			Help: "Wall time of the last check run by target version",
		}, []string{"target"}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pyupgradecheck_last_run_timestamp_seconds",
			Help: "Unix time the last check run finished",
		}),
	}
}

// RecordFetch implements Recorder.
func (r *PrometheusRecorder) RecordFetch(origin string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fetchTotal.WithLabelValues(origin, result).Inc()
	r.fetchDuration.WithLabelValues(origin).Observe(duration.Seconds())
}

// RecordVerdict implements Recorder.
func (r *PrometheusRecorder) RecordVerdict(status, source string) {
	r.verdicts.WithLabelValues(status, source).Inc()
}

// RecordRun implements Recorder.
func (r *PrometheusRecorder) RecordRun(target string, duration time.Duration) {
	r.runDuration.WithLabelValues(target).Set(duration.Seconds())
	r.lastRun.SetToCurrentTime()
}

// Gatherer exposes the underlying registry.
func (r *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics atomically to path in text exposition format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
