package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheHitRatio returns a timeseries panel showing the collector result cache
// hit ratio.
func CacheHitRatio() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Hit %").
		Description("Share of collector lookups served from the result cache").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`cs:cache_hits:rate5m / (cs:cache_hits:rate5m + cs:cache_misses:rate5m) * 100`,
			"hit %", "A",
		)).
		Unit("percent").
		Min(0).
		Max(100).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsRedGreen(50)).
		ColorScheme(ColorSchemeThresholds())
}

// CachePurged returns a timeseries panel showing expired cache entries removed
// by the purge job.
func CachePurged() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Cache Purged").
		Description("Expired cache entries removed per hour").
		WithTarget(PromQuery(`sum(increase(cs_cache_purged_total{job="catalog-search"}[1h]))`, "purged", "A")),
		"short")
}

// ReindexDuration returns a timeseries panel showing local reindex time and
// failures.
func ReindexDuration() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Reindex").
		Description("p95 reindex duration and failures over the last hour").
		WithTarget(PromQuery(Quantile(0.95, "cs_reindex_duration_seconds"), "p95", "A")).
		WithTarget(PromQuery(`sum(increase(cs_reindex_failures_total{job="catalog-search"}[1h]))`, "failures", "B")),
		"s")
}
