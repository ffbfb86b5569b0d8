// Package metrics registers the Prometheus instrumentation shared by the
// ingestion and serving runtimes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestTicks counts orchestrator ticks by outcome.
	IngestTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nemflow_ingest_ticks_total",
		Help: "Ingestion ticks by outcome.",
	}, []string{"outcome"})

	// RowsPersisted counts rows written to the relational store by family.
	RowsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nemflow_rows_persisted_total",
		Help: "Rows upserted into the relational store by record family.",
	}, []string{"family"})

	// SourceErrors counts per-source ingest failures by class.
	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nemflow_source_errors_total",
		Help: "Per-source ingestion failures by error class.",
	}, []string{"source", "class"})

	// SourceDuration observes per-source ingest latency.
	SourceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nemflow_source_duration_seconds",
		Help:    "Wall time of one source's scan/fetch/parse/persist cycle.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// CacheLookups counts tiered cache lookups by resolved tier.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nemflow_cache_lookups_total",
		Help: "Read cache lookups by source tier (kv, http, miss).",
	}, []string{"tier"})

	// APIRequests counts read API requests by route and status class.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nemflow_api_requests_total",
		Help: "Read API requests by route and status class.",
	}, []string{"route", "status"})

	// Subscribers tracks live websocket subscribers.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nemflow_ws_subscribers",
		Help: "Currently connected websocket subscribers.",
	})

	// ValidationFailures counts failed validation runs.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nemflow_validation_failures_total",
		Help: "Validation runs that reported at least one issue.",
	})
)
