package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("cs-recording-rules", RuleGroup{
		Name: "cs-recording",
		Rules: []Rule{
			record("cs:http_requests:rate5m", `sum(rate(cs_http_requests_total[5m]))`),
			record("cs:http_errors:rate5m", `sum(rate(cs_http_requests_total{status=~"5.."}[5m]))`),
			record("cs:engine_requests:rate5m", `sum(rate(cs_engine_requests_total[5m])) by (strategy)`),
			record("cs:engine_errors:rate5m", `sum(rate(cs_engine_errors_total[5m])) by (strategy)`),
			record("cs:upstream_requests:rate5m", `sum(rate(cs_upstream_requests_total[5m])) by (upstream)`),
			record("cs:upstream_timeouts:rate5m", `sum(rate(cs_upstream_timeouts_total[5m])) by (upstream)`),
			record("cs:cache_hits:rate5m", `sum(rate(cs_cache_hits_total[5m]))`),
			record("cs:cache_misses:rate5m", `sum(rate(cs_cache_misses_total[5m]))`),
		},
	})
}
