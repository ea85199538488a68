package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// catalog-search operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("cs-alerts", RuleGroup{
		Name: "cs-alerts",
		Rules: []Rule{
			{
				Alert:  "CsDown",
				Expr:   `absent(up{job="catalog-search"})`,
				For:    "2m",
				Labels: severity("critical"),
				Annotations: map[string]string{
					"summary":     "Catalog search is down",
					"description": "The catalog-search job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert:  "CsReadinessDown",
				Expr:   `cs_readyz_up == 0`,
				For:    "2m",
				Labels: severity("critical"),
				Annotations: map[string]string{
					"summary":     "Catalog search readiness check is failing",
					"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
				},
			},
			{
				Alert:  "CsHighErrorRate",
				Expr:   `cs:http_errors:rate5m / cs:http_requests:rate5m > 0.05`,
				For:    "5m",
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on catalog search",
					"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert:  "CsEngineErrors",
				Expr:   `sum(cs:engine_errors:rate5m) / sum(cs:engine_requests:rate5m) > 0.05`,
				For:    "5m",
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "Product listings are failing",
					"description": "More than 5% of listing requests failed over the last 5 minutes.",
				},
			},
			{
				Alert:  "CsUpstreamTimeouts",
				Expr:   `cs:upstream_timeouts:rate5m / cs:upstream_requests:rate5m > 0.01`,
				For:    "10m",
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "Upstream {{ $labels.upstream }} is timing out",
					"description": "More than 1% of calls to {{ $labels.upstream }} hit the configured timeout.",
				},
			},
			{
				Alert:  "CsReindexFailing",
				Expr:   `increase(cs_reindex_failures_total[2h]) > 1`,
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "Local search reindex is failing",
					"description": "The scheduled reindex failed more than once in the last 2 hours; the local index is serving stale products.",
				},
			},
			{
				Alert:  "CsCollectorTruncated",
				Expr:   `increase(cs_collector_truncated_total[1h]) > 0`,
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "The {{ $labels.collector }} collector hit its page cap",
					"description": "A configured page cap cut collection short in the last hour; listings built from it are missing products.",
				},
			},
			{
				Alert:  "CsHandlerPanics",
				Expr:   `increase(cs_http_panics_total[10m]) > 0`,
				Labels: severity("warning"),
				Annotations: map[string]string{
					"summary":     "Catalog search recovered from a handler panic",
					"description": "At least one HTTP handler panicked in the last 10 minutes.",
				},
			},
		},
	})
}
