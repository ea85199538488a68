package main

import "errors"

// KnownMetrics is the set of metric names exported by catalog-search plus
// the recording rule names referenced in dashboards and alerts. Histogram
// series are listed by family name; the validator strips _bucket, _sum and
// _count before looking them up.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"cs_http_request_duration_seconds": true,
	"cs_http_requests_total":           true,
	"cs_http_requests_in_flight":       true,
	"cs_http_panics_total":             true,

	// Health metrics.
	"cs_healthz_up": true,
	"cs_readyz_up":  true,

	// Upstream (search index and commerce backend) metrics.
	"cs_upstream_request_duration_seconds": true,
	"cs_upstream_requests_total":           true,
	"cs_upstream_timeouts_total":           true,

	// Engine metrics.
	"cs_engine_requests_total":     true,
	"cs_engine_errors_total":       true,
	"cs_engine_duration_seconds":   true,
	"cs_collected_ids":             true,
	"cs_collector_truncated_total": true,

	// Result cache metrics.
	"cs_cache_hits_total":   true,
	"cs_cache_misses_total": true,
	"cs_cache_purged_total": true,

	// Local search index metrics.
	"cs_local_index_products":     true,
	"cs_reindex_duration_seconds": true,
	"cs_reindex_failures_total":   true,

	// Recording rules.
	"cs:http_requests:rate5m":     true,
	"cs:http_errors:rate5m":       true,
	"cs:engine_requests:rate5m":   true,
	"cs:engine_errors:rate5m":     true,
	"cs:upstream_requests:rate5m": true,
	"cs:upstream_timeouts:rate5m": true,
	"cs:cache_hits:rate5m":        true,
	"cs:cache_misses:rate5m":      true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
