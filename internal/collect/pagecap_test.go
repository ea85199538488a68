package collect_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	catalogMocks "github.com/donaldgifford/catalog-search/internal/catalog/mocks"
	"github.com/donaldgifford/catalog-search/internal/collect"
	"github.com/donaldgifford/catalog-search/internal/metrics"
	"github.com/donaldgifford/catalog-search/internal/searchindex"
	indexMocks "github.com/donaldgifford/catalog-search/internal/searchindex/mocks"
	"github.com/donaldgifford/catalog-search/pkg/logger"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const upstreamTotal = 1500

// window returns the product ids for [offset, offset+limit) of a catalog
// holding upstreamTotal products.
func window(limit, offset int) []string {
	end := min(offset+limit, upstreamTotal)
	var out []string
	for i := offset; i < end; i++ {
		out = append(out, fmt.Sprintf("p%04d", i))
	}
	return out
}

func bigCatalog(t *testing.T) *catalogMocks.MockCatalog {
	t.Helper()

	cat := catalogMocks.NewMockCatalog(t)
	cat.EXPECT().
		ListVariants(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, req catalog.VariantListRequest) (*domain.VariantListPage, error) {
			return &domain.VariantListPage{
				Variants: variants(window(req.Limit, req.Offset)...),
				Count:    intPtr(upstreamTotal),
			}, nil
		}).
		Maybe()
	return cat
}

func bigIndex(t *testing.T) *indexMocks.MockIndex {
	t.Helper()

	idx := indexMocks.NewMockIndex(t)
	idx.EXPECT().
		Search(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, req searchindex.SearchRequest) (*domain.SearchHitsPage, error) {
			return &domain.SearchHitsPage{
				Hits:               hits(window(req.Limit, req.Offset)...),
				EstimatedTotalHits: intPtr(upstreamTotal),
			}, nil
		}).
		Maybe()
	return idx
}

// These tests read the shared truncation counter, so they run serially.

func TestVariantCollector_PageCap(t *testing.T) {
	truncated := metrics.CollectorTruncatedTotal.WithLabelValues("variant")

	t.Run("reads until exhausted by default", func(t *testing.T) {
		before := ptestutil.ToFloat64(truncated)
		var buf bytes.Buffer

		got, err := collect.NewVariantCollector(bigCatalog(t),
			collect.WithVariantLogger(logger.NewWithWriter(&buf, "debug", "text")),
		).CollectProductIDs(context.Background(), []string{"M"}, "")
		require.NoError(t, err)

		assert.Len(t, got, upstreamTotal)
		assert.Equal(t, domain.ProductID("p1499"), got[len(got)-1])
		assert.InDelta(t, before, ptestutil.ToFloat64(truncated), 0)
		assert.NotContains(t, buf.String(), "truncated")
	})

	t.Run("configured cap warns and counts", func(t *testing.T) {
		before := ptestutil.ToFloat64(truncated)
		var buf bytes.Buffer

		got, err := collect.NewVariantCollector(bigCatalog(t),
			collect.WithVariantMaxPages(3),
			collect.WithVariantLogger(logger.NewWithWriter(&buf, "info", "text")),
		).CollectProductIDs(context.Background(), []string{"M"}, "")
		require.NoError(t, err)

		assert.Len(t, got, 300)
		assert.InDelta(t, before+1, ptestutil.ToFloat64(truncated), 0)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "variant collection truncated by page cap")
		assert.Contains(t, buf.String(), "max_pages=3")
	})
}

func TestSearchCollector_PageCap(t *testing.T) {
	truncated := metrics.CollectorTruncatedTotal.WithLabelValues("search")

	t.Run("reads until exhausted by default", func(t *testing.T) {
		before := ptestutil.ToFloat64(truncated)

		got, err := collect.NewSearchCollector(bigIndex(t)).CollectIDs(context.Background(), "shirt")
		require.NoError(t, err)

		assert.Len(t, got, upstreamTotal)
		assert.InDelta(t, before, ptestutil.ToFloat64(truncated), 0)
	})

	t.Run("configured cap warns and counts", func(t *testing.T) {
		before := ptestutil.ToFloat64(truncated)
		var buf bytes.Buffer

		got, err := collect.NewSearchCollector(bigIndex(t),
			collect.WithSearchMaxPages(2),
			collect.WithSearchLogger(logger.NewWithWriter(&buf, "info", "text")),
		).CollectIDs(context.Background(), "shirt")
		require.NoError(t, err)

		assert.Len(t, got, 200)
		assert.InDelta(t, before+1, ptestutil.ToFloat64(truncated), 0)
		assert.Contains(t, buf.String(), "search collection truncated by page cap")
	})
}
