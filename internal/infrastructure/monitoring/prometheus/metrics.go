// Package prometheus registers and exposes the application metrics.  All
// metrics live in a private registry owned by the Metrics value; nothing in
// this repository reaches the global default registry, so tests can build as
// many instances as they like.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultHTTPDurationBuckets cover the latency range of the catalog API.
var DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds every instrument the application emits.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Sync pipeline
	SyncRecordsTotal    *prometheus.CounterVec // labels: source, outcome
	SyncReportRowsTotal *prometheus.CounterVec // labels: report
	SyncRunDuration     prometheus.Histogram

	// Similarity search
	SearchRequestsTotal  prometheus.Counter
	SearchCandidateCount prometheus.Histogram

	// Catalog
	CatalogSize prometheus.Gauge

	// Fallback lookup
	LookupRequestsTotal *prometheus.CounterVec // labels: result
	LookupCacheHits     prometheus.Counter
	LookupCacheMisses   prometheus.Counter
}

// New registers all application metrics under the given namespace in a
// fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Total HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: DefaultHTTPDurationBuckets,
	}, []string{"method", "route"})

	m.SyncRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "sync_records_total",
		Help: "Processed source records by source tag and resolution outcome.",
	}, []string{"source", "outcome"})

	m.SyncReportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "sync_report_rows_total",
		Help: "Rows written to the updates/inserts/unresolved reports.",
	}, []string{"report"})

	m.SyncRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "sync_run_duration_seconds",
		Help:    "Wall time of one full sync run.",
		Buckets: []float64{1, 5, 15, 60, 300, 900},
	})

	m.SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "search_requests_total",
		Help: "Similarity-search queries served.",
	})

	m.SearchCandidateCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "search_candidate_count",
		Help:    "Catalog entries scored per similarity query.",
		Buckets: []float64{10, 100, 1000, 10000},
	})

	m.CatalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "catalog_size",
		Help: "Number of canonical grades in the catalog.",
	})

	m.LookupRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "lookup_requests_total",
		Help: "Fallback lookup calls by result (hit, miss, error).",
	}, []string{"result"})

	m.LookupCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "lookup_cache_hits_total",
		Help: "Fallback lookups answered from the redis cache.",
	})

	m.LookupCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "lookup_cache_misses_total",
		Help: "Fallback lookups that missed the redis cache.",
	})

	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.SyncRecordsTotal, m.SyncReportRowsTotal, m.SyncRunDuration,
		m.SearchRequestsTotal, m.SearchCandidateCount,
		m.CatalogSize,
		m.LookupRequestsTotal, m.LookupCacheHits, m.LookupCacheMisses,
	)
	return m
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for test scrapes.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
