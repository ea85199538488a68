// Package metrics defines Prometheus metrics for catalog-search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cs"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	HTTPPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the HTTP middleware.",
	})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Upstream metrics.
var (
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to the catalog and search index in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream", "status"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of calls to the catalog and search index.",
	}, []string{"upstream", "status"})

	UpstreamTimeoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_timeouts_total",
		Help:      "Total number of upstream calls aborted by the request timeout.",
	}, []string{"upstream"})
)

// Engine metrics.
var (
	EngineRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engine_requests_total",
		Help:      "Total number of product list requests by strategy.",
	}, []string{"strategy"})

	EngineErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engine_errors_total",
		Help:      "Total number of failed product list requests by strategy.",
	}, []string{"strategy"})

	EngineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engine_duration_seconds",
		Help:      "Duration of product list requests by strategy in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})

	CollectedIDs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "collected_ids",
		Help:      "Number of product ids gathered per collector run.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
	}, []string{"collector"})

	CollectorTruncatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collector_truncated_total",
		Help:      "Collector runs cut short by a configured page cap before the upstream was exhausted.",
	}, []string{"collector"})
)

// Cache metrics.
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of collector cache hits.",
	}, []string{"collector"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of collector cache misses.",
	}, []string{"collector"})

	CachePurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_purged_total",
		Help:      "Total number of expired cache entries removed.",
	})
)

// Local index metrics.
var (
	IndexedProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "local_index_products",
		Help:      "Number of products in the local search index after the last reindex.",
	})

	ReindexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reindex_duration_seconds",
		Help:      "Duration of local index rebuilds in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ReindexFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reindex_failures_total",
		Help:      "Total number of failed local index rebuilds.",
	})
)
