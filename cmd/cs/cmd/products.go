package cmd

import (
	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/catalog-search/internal/api/client"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Query products",
		Long: "List and browse products through the catalog-search API. Free-text\n" +
			"queries and size filters are combined server side.",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsBrowseCmd(),
	)

	return productsRoot
}

// filterFlags binds the shared filter flags to cmd.
func filterFlags(cmd *cobra.Command, f *apiclient.Filters, priceMin, priceMax *float64) {
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "free-text search query")
	cmd.Flags().StringSliceVar(&f.Sizes, "size", nil, "size values (repeatable)")
	cmd.Flags().StringSliceVar(&f.CategoryIDs, "category", nil, "category ids (repeatable)")
	cmd.Flags().StringSliceVar(&f.CollectionIDs, "collection", nil, "collection ids (repeatable)")
	cmd.Flags().Float64Var(priceMin, "price-min", 0, "lower price bound")
	cmd.Flags().Float64Var(priceMax, "price-max", 0, "upper price bound")
	cmd.Flags().StringVar(&f.Order, "order", "", "catalog sort order, e.g. -created_at")
	cmd.Flags().StringVar(&f.RegionID, "region", "", "pricing region id")
	cmd.Flags().StringVar(&f.CountryCode, "country", "", "two-letter country code")
}

// applyPriceFlags sets price bounds only for flags the user passed.
func applyPriceFlags(cmd *cobra.Command, f *apiclient.Filters, priceMin, priceMax float64) {
	if cmd.Flags().Changed("price-min") {
		f.PriceMin = &priceMin
	}
	if cmd.Flags().Changed("price-max") {
		f.PriceMax = &priceMax
	}
}

func productsListCmd() *cobra.Command {
	var (
		f                  apiclient.Filters
		priceMin, priceMax float64
		limit, offset      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		Example: `  # Shirts available in M or L
  cs products list -q shirt --size M --size L

  # Third page of a category, 20 per page
  cs products list --category pcat_tops --limit 20 --offset 40`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyPriceFlags(cmd, &f, priceMin, priceMax)

			resp, err := newClient().ListProducts(cmd.Context(), f, limit, offset)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if err := printProductsTable(cmd.OutOrStdout(), resp.Products); err != nil {
				return err
			}
			return printListSummary(cmd.OutOrStdout(), resp)
		},
	}
	filterFlags(cmd, &f, &priceMin, &priceMax)
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().IntVar(&offset, "offset", 0, "items to skip")

	return cmd
}

func productsBrowseCmd() *cobra.Command {
	var (
		f                  apiclient.Filters
		priceMin, priceMax float64
		start, end         int
		pageSize, more     int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Load a run of pages and keep loading more",
		Long: "Loads pages --start through --end in a single request, then loads\n" +
			"up to --more further pages while the result says another page exists.",
		Example: `  # First three pages of shirts in M, 12 per page
  cs products browse -q shirt --size M --end 3

  # Resume at page 4 and load two more pages after it
  cs products browse -q shirt --start 4 --end 4 --more 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyPriceFlags(cmd, &f, priceMin, priceMax)

			resp, err := newClient().Pages(cmd.Context(), f,
				domain.PageRange{Start: start, End: end}, pageSize, more)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if err := printProductsTable(cmd.OutOrStdout(), resp.Products); err != nil {
				return err
			}
			return printPagesSummary(cmd.OutOrStdout(), resp)
		},
	}
	filterFlags(cmd, &f, &priceMin, &priceMax)
	cmd.Flags().IntVar(&start, "start", 1, "first page, 1-indexed")
	cmd.Flags().IntVar(&end, "end", 1, "last page, inclusive")
	cmd.Flags().IntVar(&pageSize, "page-size", 12, "products per page")
	cmd.Flags().IntVar(&more, "more", 0, "extra pages to load after --end")

	return cmd
}

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the server's local search index",
		Long: "Triggers a synchronous rebuild of the in-process search index.\n" +
			"Fails with 409 when the server uses a remote search backend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().Reindex(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			_, err = cmd.OutOrStdout().Write(fmtLine("Indexed %d products in %dms", resp.Indexed, resp.DurationMS))
			return err
		},
	}
}
