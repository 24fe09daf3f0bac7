// Package metrics defines the Prometheus metric collectors for the analysis
// pipeline and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the pipeline. Collectors are
// registered on a private registry so independent instances never collide.
type Metrics struct {
	AnalyzerRunsTotal *prometheus.CounterVec
	AnalyzerDuration  *prometheus.HistogramVec
	AnalyzerWarnings  *prometheus.CounterVec
	ReportsTotal      *prometheus.CounterVec
	CorpusRecords     prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers all pipeline metrics.
func New() *Metrics {
	m := &Metrics{
		AnalyzerRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyzer_runs_total",
				Help: "Total analyzer runs by kind and status (ok, degraded, failed).",
			},
			[]string{"kind", "status"},
		),
		AnalyzerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analyzer_duration_seconds",
				Help:    "Analyzer run duration in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"kind"},
		),
		AnalyzerWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyzer_warnings_total",
				Help: "Total non-fatal warnings emitted by analyzers, by warning code.",
			},
			[]string{"warning"},
		),
		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_generated_total",
				Help: "Total merged reports generated, by dataset profile.",
			},
			[]string{"profile"},
		),
		CorpusRecords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "corpus_record_count",
				Help:    "Number of records in analyzed corpora.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalyzerRunsTotal,
		m.AnalyzerDuration,
		m.AnalyzerWarnings,
		m.ReportsTotal,
		m.CorpusRecords,
	)

	return m
}

// Handler returns the Prometheus scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
