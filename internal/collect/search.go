// Package collect gathers product id lists from the upstream sources: the
// full-text search index and the catalog's variant endpoint.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/catalog-search/internal/cache"
	"github.com/donaldgifford/catalog-search/internal/metrics"
	"github.com/donaldgifford/catalog-search/internal/searchindex"
	"github.com/donaldgifford/catalog-search/pkg/ids"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const (
	defaultSearchPageSize = 100
	defaultSearchTTL      = time.Minute

	searchCollectorLabel = "search"
	searchKeyPrefix      = "search:"
)

// SearchCollector pages through a search index and returns deduplicated
// product ids in relevance order.
type SearchCollector struct {
	index    searchindex.Index
	cache    cache.Cache
	ttl      time.Duration
	log      *slog.Logger
	pageSize int
	maxPages int
	group    singleflight.Group
}

// SearchOption configures the SearchCollector.
type SearchOption func(*SearchCollector)

// WithSearchPageSize overrides the page size used by CollectIDs.
func WithSearchPageSize(n int) SearchOption {
	return func(c *SearchCollector) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithSearchMaxPages caps the pages read by CollectIDs. Zero, the default,
// reads until the index is exhausted.
func WithSearchMaxPages(n int) SearchOption {
	return func(c *SearchCollector) {
		if n >= 0 {
			c.maxPages = n
		}
	}
}

// WithSearchCache sets the cache and entry TTL for collected id lists.
func WithSearchCache(c cache.Cache, ttl time.Duration) SearchOption {
	return func(s *SearchCollector) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithSearchLogger sets the logger.
func WithSearchLogger(l *slog.Logger) SearchOption {
	return func(c *SearchCollector) {
		c.log = l
	}
}

// NewSearchCollector creates a SearchCollector over idx. Without
// WithSearchCache it memoizes nothing.
func NewSearchCollector(idx searchindex.Index, opts ...SearchOption) *SearchCollector {
	c := &SearchCollector{
		index:    idx,
		cache:    cache.Noop{},
		ttl:      defaultSearchTTL,
		log:      slog.Default(),
		pageSize: defaultSearchPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeQuery trims, lowercases and collapses inner whitespace.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// CollectIDs returns every product id matching query, deduplicated in
// relevance order. It stops at an empty or short page, once the reported
// estimated total is reached, or after the page cap when one is configured.
func (c *SearchCollector) CollectIDs(ctx context.Context, query string) ([]domain.ProductID, error) {
	key := searchKeyPrefix + NormalizeQuery(query)

	cached, ok, err := c.cached(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		found, err := c.collect(ctx, query)
		if err != nil {
			return nil, err
		}
		if err := c.store(ctx, key, found); err != nil {
			return nil, err
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("search collection shared", "query", query)
	}

	found, _ := v.([]domain.ProductID) //nolint:errcheck // always []domain.ProductID
	return slices.Clone(found), nil
}

func (c *SearchCollector) collect(ctx context.Context, query string) ([]domain.ProductID, error) {
	var (
		hits      []domain.SearchHit
		pages     int
		exhausted bool
	)
	for page := 0; c.maxPages == 0 || page < c.maxPages; page++ {
		offset := page * c.pageSize
		resp, err := c.index.Search(ctx, searchindex.SearchRequest{
			Query:  query,
			Limit:  c.pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("search page %d: %w", page, err)
		}
		pages++
		hits = append(hits, resp.Hits...)

		if len(resp.Hits) < c.pageSize ||
			(resp.EstimatedTotalHits != nil && offset+len(resp.Hits) >= *resp.EstimatedTotalHits) {
			exhausted = true
			break
		}
	}

	if !exhausted {
		metrics.CollectorTruncatedTotal.WithLabelValues(searchCollectorLabel).Inc()
		c.log.Warn("search collection truncated by page cap",
			"query", query,
			"max_pages", c.maxPages,
			"hits", len(hits),
		)
	}

	found := ids.DedupeHits(hits)
	metrics.CollectedIDs.WithLabelValues(searchCollectorLabel).Observe(float64(len(found)))
	c.log.Debug("search ids collected",
		"query", query,
		"pages", pages,
		"hits", len(hits),
		"ids", len(found),
	)
	return found, nil
}

func (c *SearchCollector) cached(ctx context.Context, key string) ([]domain.ProductID, bool, error) {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("reading search cache: %w", err)
	}
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues(searchCollectorLabel).Inc()
		return nil, false, nil
	}

	var found []domain.ProductID
	if err := json.Unmarshal(raw, &found); err != nil {
		return nil, false, fmt.Errorf("decoding search cache entry %q: %w", key, err)
	}
	metrics.CacheHitsTotal.WithLabelValues(searchCollectorLabel).Inc()
	return found, true, nil
}

func (c *SearchCollector) store(ctx context.Context, key string, found []domain.ProductID) error {
	raw, err := json.Marshal(found)
	if err != nil {
		return fmt.Errorf("encoding search cache entry: %w", err)
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		return fmt.Errorf("writing search cache: %w", err)
	}
	return nil
}

// Page fetches a single page of hits and returns it with its deduplicated
// ids. It bypasses the cache.
func (c *SearchCollector) Page(
	ctx context.Context,
	query string,
	limit, offset int,
) (*domain.SearchHitsPage, []domain.ProductID, error) {
	resp, err := c.index.Search(ctx, searchindex.SearchRequest{
		Query:  query,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, err
	}
	return resp, ids.DedupeHits(resp.Hits), nil
}
