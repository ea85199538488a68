package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpstreamRate returns a timeseries panel showing outbound calls per second
// by upstream and status.
func UpstreamRate() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Upstream Calls").
		Description("Calls to the search index and commerce backend, by status").
		WithTarget(PromQuery(
			`sum(rate(cs_upstream_requests_total{job="catalog-search"}[5m])) by (upstream, status)`,
			"{{upstream}} {{status}}", "A",
		)),
		"reqps")
}

// UpstreamLatency returns a timeseries panel showing p95 latency per upstream.
func UpstreamLatency() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Upstream p95").
		Description("95th percentile upstream round trip").
		WithTarget(PromQuery(Quantile(0.95, "cs_upstream_request_duration_seconds", "upstream"), "{{upstream}}", "A")),
		"s")
}

// UpstreamTimeouts returns a timeseries panel showing calls abandoned at the
// configured timeout.
func UpstreamTimeouts() *timeseries.PanelBuilder {
	return timeseriesDefaults(timeseries.NewPanelBuilder().
		Title("Upstream Timeouts").
		Description("Calls abandoned at the upstream timeout, per second").
		WithTarget(PromQuery(RateBy("cs_upstream_timeouts_total", "upstream"), "{{upstream}}", "A")),
		"reqps")
}
