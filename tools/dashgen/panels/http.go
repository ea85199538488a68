package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the HTTP request rate.
func RequestRate() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Request Rate").
		Description("HTTP requests per second, probes excluded").
		WithTarget(PromQuery(`cs:http_requests:rate5m`, "req/s", "A")),
		"reqps")
}

// LatencyPercentiles returns a timeseries panel showing p50, p95, and p99
// HTTP request latencies.
func LatencyPercentiles() *timeseries.PanelBuilder {
	const family = "cs_http_request_duration_seconds"
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Latency Percentiles").
		Description("HTTP request duration percentiles").
		WithTarget(PromQuery(Quantile(0.50, family), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, family), "p95", "B")).
		WithTarget(PromQuery(Quantile(0.99, family), "p99", "C")),
		"s")
}

// ErrorRate returns a timeseries panel showing the HTTP 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Error Rate %").
		Description("HTTP 5xx error rate as percentage of total requests").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`cs:http_errors:rate5m / cs:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// InFlight returns a timeseries panel showing concurrent requests and
// recovered panics.
func InFlight() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("In-flight / Panics").
		Description("Requests currently being served and handler panics recovered per second").
		WithTarget(PromQuery(`sum(cs_http_requests_in_flight{job="catalog-search"})`, "in flight", "A")).
		WithTarget(PromQuery(`sum(rate(cs_http_panics_total{job="catalog-search"}[5m]))`, "panics/s", "B")),
		"short")
}
