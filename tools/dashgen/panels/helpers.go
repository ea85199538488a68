// Package panels provides Grafana dashboard panel builders for
// catalog-search metrics.
package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Job is the scrape job label the catalog-search service runs under.
const Job = "catalog-search"

// Standard panel dimensions for a 24-column grid.
const (
	StatWidth  = 6
	StatHeight = 4

	TSWidth  = 12
	TSHeight = 8

	FullWidth = 24
)

// DSRef returns a datasource reference pointing at the ${datasource}
// template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target with the given expression,
// legend format, and ref ID.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// ThresholdsRedGreen returns thresholds that are red below the value and
// green at or above it.
func ThresholdsRedGreen(greenAbove float64) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "red"},
			{Value: cog.ToPtr[float64](greenAbove), Color: "green"},
		})
}

// ThresholdsGreenYellowRed returns three-tier thresholds.
func ThresholdsGreenYellowRed(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "green"},
			{Value: cog.ToPtr[float64](yellow), Color: "yellow"},
			{Value: cog.ToPtr[float64](red), Color: "red"},
		})
}

// ThresholdsGreenOnly returns a single green threshold step.
func ThresholdsGreenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps([]dashboard.Threshold{
			{Color: "green"},
		})
}

// ColorSchemeThresholds returns a color scheme that maps to threshold colors.
func ColorSchemeThresholds() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdThresholds)
}

// ColorSchemePaletteClassic returns a color scheme using the classic palette.
func ColorSchemePaletteClassic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().
		Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend returns a legend configuration displaying as a table at the
// bottom with the specified calculation columns.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip returns a tooltip configuration showing all series sorted
// descending.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}

// Quantile renders a histogram_quantile over a cs_ histogram family,
// aggregated by le plus any extra labels.
func Quantile(q float64, family string, by ...string) string {
	labels := "le"
	for _, l := range by {
		labels += ", " + l
	}
	return fmt.Sprintf(`histogram_quantile(%g, sum(rate(%s_bucket{job=%q}[5m])) by (%s))`,
		q, family, Job, labels)
}

// RateBy renders a per-label rate over a cs_ counter scoped to the service job.
func RateBy(counter, label string) string {
	return fmt.Sprintf(`sum(rate(%s{job=%q}[5m])) by (%s)`, counter, Job, label)
}

// timeseriesDefaults applies the line styling shared by every rate and
// latency panel on the dashboard.
func timeseriesDefaults(b *timeseries.PanelBuilder, unit string) *timeseries.PanelBuilder {
	return b.
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		Unit(unit).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
