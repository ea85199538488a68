package searchindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	"github.com/donaldgifford/catalog-search/internal/metrics"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const (
	defaultReindexPageSize = 200
	reindexFields          = "id,title,subtitle,description,handle"
)

// Reindexer rebuilds a LocalIndex from the catalog product list.
type Reindexer struct {
	catalog  catalog.Catalog
	index    *LocalIndex
	log      *slog.Logger
	pageSize int
	maxPages int
}

// ReindexerOption configures the Reindexer.
type ReindexerOption func(*Reindexer)

// WithReindexPageSize overrides the catalog page size used while reindexing.
func WithReindexPageSize(n int) ReindexerOption {
	return func(r *Reindexer) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithReindexMaxPages caps the number of catalog pages read. Zero means no cap.
func WithReindexMaxPages(n int) ReindexerOption {
	return func(r *Reindexer) {
		r.maxPages = n
	}
}

// WithReindexLogger sets the logger.
func WithReindexLogger(l *slog.Logger) ReindexerOption {
	return func(r *Reindexer) {
		r.log = l
	}
}

// NewReindexer creates a Reindexer feeding idx from c.
func NewReindexer(c catalog.Catalog, idx *LocalIndex, opts ...ReindexerOption) *Reindexer {
	r := &Reindexer{
		catalog:  c,
		index:    idx,
		log:      slog.Default(),
		pageSize: defaultReindexPageSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run pages through the whole catalog and replaces the index contents. It
// returns the number of products indexed. The index is left untouched when
// any page fails.
func (r *Reindexer) Run(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.ReindexDuration.Observe(time.Since(start).Seconds())
	}()

	var products []domain.Product
	for page := 0; r.maxPages == 0 || page < r.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			metrics.ReindexFailuresTotal.Inc()
			return 0, err
		}

		resp, err := r.catalog.ListProducts(ctx, catalog.ProductListRequest{
			Limit:  r.pageSize,
			Offset: page * r.pageSize,
			Fields: reindexFields,
		})
		if err != nil {
			metrics.ReindexFailuresTotal.Inc()
			return 0, fmt.Errorf("reading catalog page %d: %w", page, err)
		}

		products = append(products, resp.Products...)

		if len(resp.Products) < r.pageSize || len(products) >= resp.Count {
			break
		}
	}

	if err := r.index.Replace(products); err != nil {
		metrics.ReindexFailuresTotal.Inc()
		return 0, fmt.Errorf("replacing local index: %w", err)
	}

	metrics.IndexedProducts.Set(float64(len(products)))
	r.log.Info("local index rebuilt",
		"products", len(products),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return len(products), nil
}
