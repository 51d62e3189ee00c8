// Package metrics exposes Prometheus instrumentation for the address importer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded by ObserveRun.
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Metrics tracks row throughput, batch flushes and run outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RowsProcessed      prometheus.Counter
	RowsInserted       prometheus.Counter
	RowsSkipped        prometheus.Counter
	BatchesFlushed     prometheus.Counter
	BatchFlushDuration prometheus.Histogram
	DownloadedBytes    prometheus.Counter
	Runs               *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	Phase              *prometheus.GaugeVec
	LastSuccess        prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)
	m.registry = reg
	return m
}

// NewWithRegisterer registers all importer metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RowsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "address_import_rows_processed_total",
			Help: "Building rows read from the registry archive",
		}),
		RowsInserted: f.NewCounter(prometheus.CounterOpts{
			Name: "address_import_rows_inserted_total",
			Help: "Address documents written to the shadow table",
		}),
		RowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "address_import_rows_skipped_total",
			Help: "Building rows dropped as short or missing required fields",
		}),
		BatchesFlushed: f.NewCounter(prometheus.CounterOpts{
			Name: "address_import_batches_flushed_total",
			Help: "Bulk insert batches flushed",
		}),
		BatchFlushDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "address_import_batch_flush_duration_seconds",
			Help:    "Duration of one bulk insert batch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DownloadedBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "address_import_downloaded_bytes_total",
			Help: "Archive bytes downloaded",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "address_import_runs_total",
			Help: "Import runs by outcome",
		}, []string{"outcome"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "address_import_run_duration_seconds",
			Help:    "Wall time of import runs that reached the load phase",
			Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200},
		}),
		Phase: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "address_import_phase",
			Help: "1 for the phase the running import is in",
		}, []string{"phase"}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "address_import_last_success_timestamp_seconds",
			Help: "Unix time of the last completed import",
		}),
	}
}

// Handler serves the registry created by New, or the default registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetPhase marks phase as the current one.
func (m *Metrics) SetPhase(phase string) {
	if m == nil {
		return
	}
	m.Phase.Reset()
	m.Phase.WithLabelValues(phase).Set(1)
}

// IncProcessed records one building row read.
func (m *Metrics) IncProcessed() {
	if m == nil {
		return
	}
	m.RowsProcessed.Inc()
}

// IncSkipped records one dropped building row.
func (m *Metrics) IncSkipped() {
	if m == nil {
		return
	}
	m.RowsSkipped.Inc()
}

// ObserveFlush records a flushed batch of n documents.
// Call with time.Now() taken before the insert.
func (m *Metrics) ObserveFlush(n int, start time.Time) {
	if m == nil {
		return
	}
	m.BatchesFlushed.Inc()
	m.RowsInserted.Add(float64(n))
	m.BatchFlushDuration.Observe(time.Since(start).Seconds())
}

// AddDownloaded records downloaded archive bytes.
func (m *Metrics) AddDownloaded(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.DownloadedBytes.Add(float64(n))
}

// ObserveRun records the outcome of one import run.
func (m *Metrics) ObserveRun(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	m.RunDuration.Observe(time.Since(start).Seconds())
	if outcome == OutcomeCompleted {
		m.LastSuccess.SetToCurrentTime()
	}
}
