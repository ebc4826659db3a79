// Package metrics defines the Prometheus collectors used by the indexer and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the indexer.
type Metrics struct {
	DocumentsIndexedTotal *prometheus.CounterVec
	IndexDuration         prometheus.Histogram
	IndexWorkers          prometheus.Histogram
	WorkerFailuresTotal   prometheus.Counter
	IndexTerms            prometheus.Gauge
	IndexDocuments        prometheus.Gauge
	ReportDeliveriesTotal *prometheus.CounterVec
	CircuitBreakerState   *prometheus.GaugeVec
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
}

// New creates all collectors and registers them on reg. A nil reg uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		DocumentsIndexedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_indexed_total",
				Help: "Total indexing calls by outcome (ok, invalid, io_error, worker_failure).",
			},
			[]string{"status"},
		),
		IndexDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_duration_seconds",
				Help:    "Wall time of one indexing call, load to join.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		IndexWorkers: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_workers",
				Help:    "Number of workers spawned per indexing call.",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
			},
		),
		WorkerFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "index_worker_failures_total",
				Help: "Total workers that terminated abnormally.",
			},
		),
		IndexTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_terms",
				Help: "Distinct terms currently held in memory.",
			},
		),
		IndexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_documents",
				Help: "Distinct documents that contributed terms.",
			},
		),
		ReportDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_deliveries_total",
				Help: "Index result deliveries by sink and status.",
			},
			[]string{"sink", "status"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Requests served by the metrics server, excluding /metrics.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of requests served by the metrics server.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(
		m.DocumentsIndexedTotal,
		m.IndexDuration,
		m.IndexWorkers,
		m.WorkerFailuresTotal,
		m.IndexTerms,
		m.IndexDocuments,
		m.ReportDeliveriesTotal,
		m.CircuitBreakerState,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a scrape handler for a specific gatherer.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
