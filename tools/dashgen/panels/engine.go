package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StrategyRate returns a timeseries panel showing listing requests per
// second broken down by the strategy the engine selected.
func StrategyRate() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Requests by Strategy").
		Description("Listing requests per second by resolution strategy").
		WithTarget(PromQuery(RateBy("cs_engine_requests_total", "strategy"), "{{strategy}}", "A")),
		"reqps")
}

// StrategyLatency returns a timeseries panel showing p95 engine latency per
// strategy.
func StrategyLatency() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Engine p95 by Strategy").
		Description("95th percentile time to resolve a listing, per strategy").
		WithTarget(PromQuery(Quantile(0.95, "cs_engine_duration_seconds", "strategy"), "{{strategy}}", "A")),
		"s")
}

// EngineErrors returns a timeseries panel showing failed listing requests per
// strategy.
func EngineErrors() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Engine Errors").
		Description("Listing requests that failed per second, by strategy").
		WithTarget(PromQuery(RateBy("cs_engine_errors_total", "strategy"), "{{strategy}}", "A")),
		"reqps")
}

// CollectedIDs returns a timeseries panel showing the p95 number of product
// IDs each collector gathers before intersection.
func CollectedIDs() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Collected IDs p95").
		Description("95th percentile of IDs gathered per collection run").
		WithTarget(PromQuery(Quantile(0.95, "cs_collected_ids", "collector"), "{{collector}}", "A")),
		"short")
}
