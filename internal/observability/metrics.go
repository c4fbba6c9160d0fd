package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// translation batch.
type Metrics struct {
	FilesProcessed prometheus.Counter
	FilesFailed    prometheus.Counter
	RowsProcessed  prometheus.Counter

	// Normalization outcomes.
	TraceFields       prometheus.Counter
	MalformedNumerics prometheus.Counter

	// Text extraction hits by category (wind, visibility, altimeter,
	// clouds, wx_codes).
	ReportMatches *prometheus.CounterVec

	RecordsPublished prometheus.Counter

	FileDuration      prometheus.Histogram
	TranslatorRunning prometheus.Gauge
}

// NewMetrics creates and registers all batch metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesProcessed,
		m.FilesFailed,
		m.RowsProcessed,
		m.TraceFields,
		m.MalformedNumerics,
		m.ReportMatches,
		m.RecordsPublished,
		m.FileDuration,
		m.TranslatorRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "files_processed_total",
			Help:      "Total CSV files translated successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "files_failed_total",
			Help:      "Total CSV files that could not be processed.",
		}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "rows_processed_total",
			Help:      "Total CSV rows assembled into records.",
		}),
		TraceFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "trace_fields_total",
			Help:      "Numeric fields carrying the trace marker T.",
		}),
		MalformedNumerics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "malformed_numeric_total",
			Help:      "Non-sentinel numeric tokens that failed to parse.",
		}),
		ReportMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "report_matches_total",
			Help:      "METAR text pattern matches by category.",
		}, []string{"category"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_translator",
			Name:      "records_published_total",
			Help:      "Records published to the Kafka sink topic.",
		}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_translator",
			Name:      "file_processing_duration_seconds",
			Help:      "Duration of a complete read-assemble-write cycle per file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		TranslatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_translator",
			Name:      "translator_running",
			Help:      "1 while the batch is active, 0 when finished.",
		}),
	}
}
