// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/catalog-search/tools/dashgen/panels"
)

// OverviewUID is the stable dashboard UID; links and provisioning key on it.
const OverviewUID = "cs-overview"

// BuildOverview constructs the Catalog Search Overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Catalog Search Overview").
		Uid(OverviewUID).
		Tags([]string{"cs", "catalog-search"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.IndexedProductsStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.InFlight()))

	b.WithRow(dashboard.NewRowBuilder("Engine").
		WithPanel(panels.StrategyRate()).
		WithPanel(panels.StrategyLatency()).
		WithPanel(panels.EngineErrors()).
		WithPanel(panels.CollectedIDs()))

	b.WithRow(dashboard.NewRowBuilder("Upstreams").
		WithPanel(panels.UpstreamRate()).
		WithPanel(panels.UpstreamLatency()).
		WithPanel(panels.UpstreamTimeouts()))

	b.WithRow(dashboard.NewRowBuilder("Cache & Index").
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.CachePurged()).
		WithPanel(panels.ReindexDuration()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
