package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/catalog-search/internal/config"
	"github.com/donaldgifford/catalog-search/internal/engine"
	"github.com/donaldgifford/catalog-search/pkg/logger"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

type searchFlags struct {
	sizes       []string
	categories  []string
	limit       int
	offset      int
	countryCode string
}

func searchCommand() *cobra.Command {
	var f searchFlags

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one product query without starting the server",
		Long: "Wires the engine from the config and runs a single product list " +
			"request against the upstreams, printing the result as JSON.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, f)
		},
	}
	searchCmd.Flags().StringSliceVar(&f.sizes, "size", nil, "size values (repeatable)")
	searchCmd.Flags().StringSliceVar(&f.categories, "category", nil, "category ids (repeatable)")
	searchCmd.Flags().IntVar(&f.limit, "limit", 12, "page size")
	searchCmd.Flags().IntVar(&f.offset, "offset", 0, "items to skip")
	searchCmd.Flags().StringVar(&f.countryCode, "country-code", "", "country code (defaults to config)")

	return searchCmd
}

func runSearch(cmd *cobra.Command, args []string, f searchFlags) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if a.reindexer != nil {
		if _, err := a.scheduler.Reindex(ctx); err != nil {
			return fmt.Errorf("building local index: %w", err)
		}
	}

	var query string
	if len(args) > 0 {
		query = args[0]
	}
	country := f.countryCode
	if country == "" {
		country = cfg.Catalog.DefaultCountryCode
	}

	filters := domain.NewFilters(domain.FilterSpec{
		Query:       query,
		Sizes:       f.sizes,
		CategoryIDs: f.categories,
	})
	p, err := domain.NewQueryParams(filters, f.limit, f.offset, "", cfg.Catalog.DefaultRegionID, country)
	if err != nil {
		return err
	}

	list, err := a.engine.ListProducts(ctx, p)
	if err != nil {
		return err
	}

	out := struct {
		*domain.ProductList
		Strategy string `json:"strategy"`
	}{list, engine.SelectStrategy(filters).String()}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
