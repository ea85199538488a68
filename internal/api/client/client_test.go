package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProducts(context.Background(), Filters{}, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "problem document",
			body:       `{"title":"Unprocessable Entity","status":422,"detail":"invalid query params: limit must be <= 200"}`,
			wantDetail: "invalid query params: limit must be <= 200",
			wantMsg:    "API error (HTTP 422): invalid query params",
		},
		{
			name:    "plain body",
			body:    "gateway exploded",
			wantMsg: "API error (HTTP 422): gateway exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).ListProducts(context.Background(), Filters{}, 500, 0)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/store/products", r.URL.Path)
		assert.Equal(t, "cs-test", r.Header.Get("User-Agent"))
		q := r.URL.Query()
		assert.Equal(t, "linen shirt", q.Get("q"))
		assert.Equal(t, "M,L", q.Get("sizes"))
		assert.Equal(t, "19.5", q.Get("price_min"))
		assert.Empty(t, q.Get("price_max"))
		assert.Equal(t, "12", q.Get("limit"))
		assert.Equal(t, "24", q.Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":"p1","title":"Linen Shirt"}],` +
			`"count":25,"limit":12,"offset":24,"strategy":"MEILI_SIZE_INTERSECTION"}`))
	}))
	defer srv.Close()

	minPrice := 19.5
	c := New(srv.URL, WithUserAgent("cs-test"))
	resp, err := c.ListProducts(context.Background(), Filters{
		Query:    "linen shirt",
		Sizes:    []string{"M", "L"},
		PriceMin: &minPrice,
	}, 12, 24)
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Count)
	assert.Equal(t, "MEILI_SIZE_INTERSECTION", resp.Strategy)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, domain.ProductID("p1"), resp.Products[0].ID)
}

func TestClient_Pages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/store/products/pages", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("start"))
		assert.Equal(t, "3", q.Get("end"))
		assert.Equal(t, "10", q.Get("page_size"))
		assert.Empty(t, q.Get("more"))

		_, _ = w.Write([]byte(`{"products":[],"total_count":21,"has_next_page":true,"next_offset":30}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Pages(context.Background(), Filters{}, domain.PageRange{Start: 2, End: 3}, 10, 0)
	require.NoError(t, err)
	assert.True(t, resp.HasNextPage)
	assert.Equal(t, 30, resp.NextOffset)
}

func TestClient_Reindex(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/search/reindex", r.URL.Path)
		_, _ = w.Write([]byte(`{"indexed":128,"duration_ms":40}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 128, resp.Indexed)
}
