package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// Filters are the product filter query parameters shared by the list and
// page-run endpoints.
type Filters struct {
	Query         string
	Sizes         []string
	CategoryIDs   []string
	CollectionIDs []string
	PriceMin      *float64
	PriceMax      *float64
	Order         string
	Fields        string
	RegionID      string
	CountryCode   string
}

func (f Filters) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("q", f.Query)
	set("sizes", strings.Join(f.Sizes, ","))
	set("category_id", strings.Join(f.CategoryIDs, ","))
	set("collection_id", strings.Join(f.CollectionIDs, ","))
	if f.PriceMin != nil {
		q.Set("price_min", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		q.Set("price_max", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	set("order", f.Order)
	set("fields", f.Fields)
	set("region_id", f.RegionID)
	set("country_code", f.CountryCode)
	return q
}

// ProductsResponse is one page of products.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Strategy string           `json:"strategy"`
}

// ListProducts returns one page of products. Zero limit uses the server
// default.
func (c *Client) ListProducts(
	ctx context.Context,
	f Filters,
	limit, offset int,
) (*ProductsResponse, error) {
	q := f.values()
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var resp ProductsResponse
	if err := c.get(ctx, withQuery("/api/v1/store/products", q), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PagesResponse is an accumulated run of pages.
type PagesResponse struct {
	Products    []domain.Product `json:"products"`
	TotalCount  int              `json:"total_count"`
	HasNextPage bool             `json:"has_next_page"`
	NextOffset  int              `json:"next_offset"`
	Start       int              `json:"start"`
	End         int              `json:"end"`
	PageSize    int              `json:"page_size"`
}

// Pages loads pages r.Start through r.End of pageSize products each, plus
// up to more further pages.
func (c *Client) Pages(
	ctx context.Context,
	f Filters,
	r domain.PageRange,
	pageSize, more int,
) (*PagesResponse, error) {
	q := f.values()
	q.Set("start", strconv.Itoa(r.Start))
	q.Set("end", strconv.Itoa(r.End))
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if more > 0 {
		q.Set("more", strconv.Itoa(more))
	}

	var resp PagesResponse
	if err := c.get(ctx, withQuery("/api/v1/store/products/pages", q), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReindexResponse reports a completed local reindex.
type ReindexResponse struct {
	Indexed    int   `json:"indexed"`
	DurationMS int64 `json:"duration_ms"`
}

// Reindex rebuilds the server's local search index.
func (c *Client) Reindex(ctx context.Context) (*ReindexResponse, error) {
	var resp ReindexResponse
	if err := c.post(ctx, "/api/v1/search/reindex", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
