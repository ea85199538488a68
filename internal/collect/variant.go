package collect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	"github.com/donaldgifford/catalog-search/internal/metrics"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const (
	defaultVariantPageSize = 100

	variantCollectorLabel = "variant"
)

// VariantCollector gathers the owning product ids of variants whose option
// value matches a size.
type VariantCollector struct {
	catalog      catalog.Catalog
	log          *slog.Logger
	pageSize     int
	maxPages     int
	forwardQuery bool
}

// VariantOption configures the VariantCollector.
type VariantOption func(*VariantCollector)

// WithVariantPageSize overrides the variant page size.
func WithVariantPageSize(n int) VariantOption {
	return func(c *VariantCollector) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithVariantMaxPages caps the pages read per size. Zero, the default, reads
// until the endpoint is exhausted.
func WithVariantMaxPages(n int) VariantOption {
	return func(c *VariantCollector) {
		if n >= 0 {
			c.maxPages = n
		}
	}
}

// WithVariantQuery forwards the free-text query to the variant endpoint.
func WithVariantQuery(forward bool) VariantOption {
	return func(c *VariantCollector) {
		c.forwardQuery = forward
	}
}

// WithVariantLogger sets the logger.
func WithVariantLogger(l *slog.Logger) VariantOption {
	return func(c *VariantCollector) {
		c.log = l
	}
}

// NewVariantCollector creates a VariantCollector reading from cat.
func NewVariantCollector(cat catalog.Catalog, opts ...VariantOption) *VariantCollector {
	c := &VariantCollector{
		catalog:  cat,
		log:      slog.Default(),
		pageSize: defaultVariantPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectProductIDs returns the product ids of every variant matching any
// of sizes, in upstream order and without deduplication. Variants without a
// product id are skipped.
func (c *VariantCollector) CollectProductIDs(
	ctx context.Context,
	sizes []string,
	query string,
) ([]domain.ProductID, error) {
	if !c.forwardQuery {
		query = ""
	}

	var out []domain.ProductID
	for _, size := range sizes {
		size = strings.TrimSpace(size)
		if size == "" {
			continue
		}

		found, err := c.collectSize(ctx, size, query)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}

	metrics.CollectedIDs.WithLabelValues(variantCollectorLabel).Observe(float64(len(out)))
	return out, nil
}

func (c *VariantCollector) collectSize(
	ctx context.Context,
	size, query string,
) ([]domain.ProductID, error) {
	var (
		out       []domain.ProductID
		exhausted bool
		page      int
	)
	for ; c.maxPages == 0 || page < c.maxPages; page++ {
		offset := page * c.pageSize
		resp, err := c.catalog.ListVariants(ctx, catalog.VariantListRequest{
			OptionValue: size,
			Query:       query,
			Limit:       c.pageSize,
			Offset:      offset,
		})
		if err != nil {
			return nil, fmt.Errorf("variant page %d for size %q: %w", page, size, err)
		}

		for _, v := range resp.Variants {
			if v.ProductID == "" {
				continue
			}
			out = append(out, v.ProductID)
		}

		if len(resp.Variants) < c.pageSize ||
			(resp.Count != nil && offset+c.pageSize >= *resp.Count) {
			exhausted = true
			break
		}
	}

	if !exhausted {
		metrics.CollectorTruncatedTotal.WithLabelValues(variantCollectorLabel).Inc()
		c.log.Warn("variant collection truncated by page cap",
			"size", size,
			"max_pages", c.maxPages,
			"ids", len(out),
		)
	}

	c.log.Debug("variant ids collected", "size", size, "pages", page, "ids", len(out))
	return out, nil
}
