package collect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	catalogMocks "github.com/donaldgifford/catalog-search/internal/catalog/mocks"
	"github.com/donaldgifford/catalog-search/internal/collect"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

func variants(productIDs ...string) []domain.VariantRecord {
	out := make([]domain.VariantRecord, len(productIDs))
	for i, id := range productIDs {
		out[i] = domain.VariantRecord{ID: "v_" + id, ProductID: domain.ProductID(id)}
	}
	return out
}

func TestVariantCollector_CollectProductIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sizes   []string
		opts    []collect.VariantOption
		query   string
		setup   func(m *catalogMocks.MockCatalog)
		want    []domain.ProductID
		wantErr string
	}{
		{
			name:  "accumulates sizes without dedupe",
			sizes: []string{"M", "L"},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "M", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: variants("p3", "p1"), Count: intPtr(3)}, nil).
					Once()
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "M", Limit: 2, Offset: 2}).
					Return(&domain.VariantListPage{Variants: variants("p1"), Count: intPtr(3)}, nil).
					Once()
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "L", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: variants("p4"), Count: intPtr(1)}, nil).
					Once()
			},
			want: []domain.ProductID{"p3", "p1", "p1", "p4"},
		},
		{
			name:  "stops when offset reaches count",
			sizes: []string{"S"},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "S", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: variants("p1", "p2"), Count: intPtr(2)}, nil).
					Once()
			},
			want: []domain.ProductID{"p1", "p2"},
		},
		{
			name:  "skips empty product ids and blank sizes",
			sizes: []string{" ", "XL"},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "XL", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: []domain.VariantRecord{{ID: "v1"}, {ID: "v2", ProductID: "p9"}}}, nil).
					Once()
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "XL", Limit: 2, Offset: 2}).
					Return(&domain.VariantListPage{}, nil).
					Once()
			},
			want: []domain.ProductID{"p9"},
		},
		{
			name:  "forwards query when enabled",
			sizes: []string{"M"},
			query: "shirt",
			opts:  []collect.VariantOption{collect.WithVariantQuery(true)},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "M", Query: "shirt", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: variants("p1")}, nil).
					Once()
			},
			want: []domain.ProductID{"p1"},
		},
		{
			name:  "drops query by default",
			sizes: []string{"M"},
			query: "shirt",
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, catalog.VariantListRequest{OptionValue: "M", Limit: 2, Offset: 0}).
					Return(&domain.VariantListPage{Variants: variants("p1")}, nil).
					Once()
			},
			want: []domain.ProductID{"p1"},
		},
		{
			name:  "page cap",
			sizes: []string{"M"},
			opts:  []collect.VariantOption{collect.WithVariantMaxPages(1)},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, mock.Anything).
					Return(&domain.VariantListPage{Variants: variants("p1", "p2"), Count: intPtr(50)}, nil).
					Once()
			},
			want: []domain.ProductID{"p1", "p2"},
		},
		{
			name:  "upstream failure",
			sizes: []string{"M"},
			setup: func(m *catalogMocks.MockCatalog) {
				m.EXPECT().
					ListVariants(mock.Anything, mock.Anything).
					Return(nil, errors.New("catalog down")).
					Once()
			},
			wantErr: `variant page 0 for size "M": catalog down`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat := catalogMocks.NewMockCatalog(t)
			tt.setup(cat)

			opts := append([]collect.VariantOption{collect.WithVariantPageSize(2)}, tt.opts...)
			got, err := collect.NewVariantCollector(cat, opts...).
				CollectProductIDs(context.Background(), tt.sizes, tt.query)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantCollector_NoSizes(t *testing.T) {
	t.Parallel()

	cat := catalogMocks.NewMockCatalog(t)
	got, err := collect.NewVariantCollector(cat).CollectProductIDs(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
