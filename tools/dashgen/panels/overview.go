package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return upDownStat("Healthz", "Health check status (1 = ok, 0 = failing)", `cs_healthz_up`)
}

// ReadyzStat returns a stat panel showing the readiness check status.
func ReadyzStat() *stat.PanelBuilder {
	return upDownStat("Readyz", "Readiness check status (1 = ready, 0 = not ready)", `cs_readyz_up`)
}

func upDownStat(title, desc, expr string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(desc).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// IndexedProductsStat returns a stat panel showing how many products the
// in-process search index holds. It stays empty when the remote backend is
// configured.
func IndexedProductsStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Indexed Products").
		Description("Documents in the local search index after the last reindex").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`max(cs_local_index_products{job="catalog-search"})`, "", "A")).
		Unit("short").
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`time() - process_start_time_seconds{job="catalog-search"}`,
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
