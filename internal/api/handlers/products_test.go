package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/catalog-search/internal/api/handlers"
	"github.com/donaldgifford/catalog-search/internal/httpjson"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// stubLister records every request and answers from fn.
type stubLister struct {
	mu    sync.Mutex
	calls []domain.QueryParams
	fn    func(p domain.QueryParams) (*domain.ProductList, error)
}

func (s *stubLister) ListProducts(_ context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	s.mu.Unlock()
	return s.fn(p)
}

func (s *stubLister) requests() []domain.QueryParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.QueryParams(nil), s.calls...)
}

// catalogOf serves offset/limit windows over total synthetic products.
func catalogOf(total int) func(p domain.QueryParams) (*domain.ProductList, error) {
	return func(p domain.QueryParams) (*domain.ProductList, error) {
		var out []domain.Product
		for i := p.Offset; i < total && i < p.Offset+p.Limit; i++ {
			out = append(out, domain.Product{ID: domain.ProductID(fmt.Sprintf("p%d", i))})
		}
		return &domain.ProductList{Products: out, Count: total, Limit: p.Limit, Offset: p.Offset}, nil
	}
}

func newProductsAPI(t *testing.T, l handlers.ProductLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	h := handlers.NewProductsHandler(l, handlers.Defaults{CountryCode: "us", RegionID: "reg_1"})
	handlers.RegisterProductRoutes(api, h)
	handlers.RegisterPageRoutes(api, h)
	return api
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		fn           func(p domain.QueryParams) (*domain.ProductList, error)
		wantStatus   int
		wantContains []string
		check        func(t *testing.T, calls []domain.QueryParams)
	}{
		{
			name:       "query and sizes select the intersection",
			path:       "/api/v1/store/products?q=shirt&sizes=M,L&limit=2&offset=2",
			fn:         catalogOf(5),
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"strategy":"MEILI_SIZE_INTERSECTION"`,
				`"count":5`,
				`"id":"p2"`,
				`"id":"p3"`,
			},
			check: func(t *testing.T, calls []domain.QueryParams) {
				t.Helper()
				require.Len(t, calls, 1)
				p := calls[0]
				assert.Equal(t, "shirt", p.Filters.Query())
				assert.Equal(t, []string{"M", "L"}, p.Filters.Sizes())
				assert.Equal(t, 2, p.Limit)
				assert.Equal(t, 2, p.Offset)
				assert.Equal(t, "us", p.CountryCode)
				assert.Equal(t, "reg_1", p.RegionID)
			},
		},
		{
			name:         "no filters uses the catalog",
			path:         "/api/v1/store/products?country_code=DE&category_id=cat_1&price_min=10",
			fn:           catalogOf(0),
			wantStatus:   http.StatusOK,
			wantContains: []string{`"strategy":"DEFAULT_MEDUSA"`, `"products":[]`},
			check: func(t *testing.T, calls []domain.QueryParams) {
				t.Helper()
				require.Len(t, calls, 1)
				p := calls[0]
				assert.Equal(t, "de", p.CountryCode)
				assert.Equal(t, 12, p.Limit)
				assert.Equal(t, []string{"cat_1"}, p.Filters.CategoryIDs())
				require.NotNil(t, p.Filters.PriceMin())
				assert.InDelta(t, 10.0, *p.Filters.PriceMin(), 0.001)
			},
		},
		{
			name:       "bad price is rejected before the engine",
			path:       "/api/v1/store/products?price_max=cheap",
			fn:         catalogOf(0),
			wantStatus: http.StatusUnprocessableEntity,
			wantContains: []string{
				"price_max must be a non-negative number",
			},
			check: func(t *testing.T, calls []domain.QueryParams) {
				t.Helper()
				assert.Empty(t, calls)
			},
		},
		{
			name:       "limit above the maximum",
			path:       "/api/v1/store/products?limit=500",
			fn:         catalogOf(0),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid country code",
			path:       "/api/v1/store/products?country_code=usa",
			fn:         catalogOf(0),
			wantStatus: http.StatusUnprocessableEntity,
			wantContains: []string{
				"invalid query params",
			},
		},
		{
			name: "upstream timeout",
			path: "/api/v1/store/products?q=shirt",
			fn: func(domain.QueryParams) (*domain.ProductList, error) {
				return nil, fmt.Errorf("collecting search ids: %w",
					&httpjson.TimeoutError{Path: "/store/search", Timeout: time.Second})
			},
			wantStatus:   http.StatusGatewayTimeout,
			wantContains: []string{"upstream timed out"},
		},
		{
			name: "upstream failure",
			path: "/api/v1/store/products?sizes=M",
			fn: func(domain.QueryParams) (*domain.ProductList, error) {
				return nil, errors.New("collecting variant ids: connection refused")
			},
			wantStatus:   http.StatusBadGateway,
			wantContains: []string{"connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := &stubLister{fn: tt.fn}
			api := newProductsAPI(t, l)

			resp := api.Get(tt.path)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantContains {
				assert.Contains(t, resp.Body.String(), want)
			}
			if tt.check != nil {
				tt.check(t, l.requests())
			}
		})
	}
}

func TestListPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		path         string
		total        int
		wantStatus   int
		wantContains []string
		wantCalls    [][2]int
	}{
		{
			name:       "range fetched in one call",
			path:       "/api/v1/store/products/pages?start=2&end=3&page_size=4",
			total:      30,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"total_count":30`,
				`"has_next_page":true`,
				`"next_offset":12`,
				`"id":"p4"`,
				`"id":"p11"`,
			},
			wantCalls: [][2]int{{8, 4}},
		},
		{
			name:       "more appends pages until the end",
			path:       "/api/v1/store/products/pages?page_size=4&more=5",
			total:      10,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"total_count":10`,
				`"has_next_page":false`,
				`"next_offset":10`,
				`"id":"p9"`,
			},
			wantCalls: [][2]int{{4, 0}, {4, 4}, {4, 8}},
		},
		{
			name:       "end before start",
			path:       "/api/v1/store/products/pages?start=3&end=2",
			wantStatus: http.StatusUnprocessableEntity,
			wantContains: []string{
				"invalid page range",
			},
		},
		{
			name:       "range wider than the request limit",
			path:       "/api/v1/store/products/pages?start=1&end=3&page_size=100",
			total:      500,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"total_count":500`,
				`"has_next_page":true`,
				`"next_offset":300`,
				`"id":"p0"`,
				`"id":"p299"`,
			},
			wantCalls: [][2]int{{200, 0}, {100, 200}},
		},
		{
			name:       "wide range past the end",
			path:       "/api/v1/store/products/pages?start=1&end=4&page_size=100",
			total:      250,
			wantStatus: http.StatusOK,
			wantContains: []string{
				`"total_count":250`,
				`"has_next_page":false`,
				`"next_offset":250`,
				`"id":"p249"`,
			},
			wantCalls: [][2]int{{200, 0}, {200, 200}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := &stubLister{fn: catalogOf(tt.total)}
			api := newProductsAPI(t, l)

			resp := api.Get(tt.path)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantContains {
				assert.Contains(t, resp.Body.String(), want)
			}

			var got [][2]int
			for _, c := range l.requests() {
				got = append(got, [2]int{c.Limit, c.Offset})
			}
			assert.Equal(t, tt.wantCalls, got)
		})
	}
}
