// Package metrics exposes Prometheus instrumentation for ingestion and
// query evaluation. The collectors are registered on the default registry;
// watch mode can serve them over HTTP when configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radiuslog_ingests_total",
			Help: "Total number of ingest operations",
		},
		[]string{"mode", "status"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "radiuslog_ingest_duration_seconds",
			Help:    "Duration of ingest operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecordsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiuslog_records_parsed_total",
			Help: "Total number of log records successfully parsed",
		},
	)

	ParseErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiuslog_parse_errors_total",
			Help: "Total number of malformed log records",
		},
	)

	// Collection gauges reflect the currently published collection.
	EventsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "radiuslog_events_loaded",
			Help: "Raw events in the current collection",
		},
	)

	SessionsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "radiuslog_sessions_loaded",
			Help: "Sessions in the current collection",
		},
	)

	// Query metrics
	QueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiuslog_queries_total",
			Help: "Total number of filter evaluations",
		},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "radiuslog_query_duration_seconds",
			Help:    "Duration of filter evaluations in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)
)
