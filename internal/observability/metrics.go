package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// query pipeline and the telemetry ingest loop.
type Metrics struct {
	QueriesProcessed *prometheus.CounterVec // label: query_type
	QueryErrors      prometheus.Counter
	QueryDuration    prometheus.Histogram
	StageDuration    *prometheus.HistogramVec // label: stage

	// Ingest metrics.
	ReadingsIngested prometheus.Counter
	IngestErrors     prometheus.Counter
	IngestRunning    prometheus.Gauge
	IngestBatchSize  prometheus.Histogram
}

// NewMetrics creates and registers all agent metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		QueriesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agri_agent",
			Name:      "queries_processed_total",
			Help:      "Total queries processed, by classified query type.",
		}, []string{"query_type"}),
		QueryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_agent",
			Name:      "query_errors_total",
			Help:      "Total queries that terminated through the error path.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agri_agent",
			Name:      "query_duration_seconds",
			Help:      "End-to-end duration of one pipeline run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agri_agent",
			Name:      "stage_duration_seconds",
			Help:      "Duration of one pipeline stage execution.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"stage"}),
		ReadingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_agent",
			Name:      "readings_ingested_total",
			Help:      "Total sensor readings written to the store.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agri_agent",
			Name:      "ingest_errors_total",
			Help:      "Total ingest batch failures.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agri_agent",
			Name:      "ingest_running",
			Help:      "1 when the ingest loop is active, 0 when shut down.",
		}),
		IngestBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agri_agent",
			Name:      "ingest_batch_size",
			Help:      "Number of readings per ingested batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
	}

	prometheus.MustRegister(
		m.QueriesProcessed,
		m.QueryErrors,
		m.QueryDuration,
		m.StageDuration,
		m.ReadingsIngested,
		m.IngestErrors,
		m.IngestRunning,
		m.IngestBatchSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		QueriesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agri_agent", Name: "queries_processed_total"}, []string{"query_type"}),
		QueryErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_agent", Name: "query_errors_total"}),
		QueryDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agri_agent", Name: "query_duration_seconds"}),
		StageDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "agri_agent", Name: "stage_duration_seconds"}, []string{"stage"}),
		ReadingsIngested: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_agent", Name: "readings_ingested_total"}),
		IngestErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agri_agent", Name: "ingest_errors_total"}),
		IngestRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "agri_agent", Name: "ingest_running"}),
		IngestBatchSize:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agri_agent", Name: "ingest_batch_size"}),
	}
}
