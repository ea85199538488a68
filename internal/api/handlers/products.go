package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/catalog-search/internal/engine"
	"github.com/donaldgifford/catalog-search/internal/httpjson"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// ProductLister lists one page of products for a validated request.
type ProductLister interface {
	ListProducts(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error)
}

// Defaults fills request fields the caller left blank.
type Defaults struct {
	CountryCode string
	RegionID    string
}

// ProductsHandler serves the product list endpoints.
type ProductsHandler struct {
	lister   ProductLister
	defaults Defaults
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(l ProductLister, d Defaults) *ProductsHandler {
	return &ProductsHandler{lister: l, defaults: d}
}

// FilterParams are the filter and hydration query parameters shared by the
// product endpoints.
type FilterParams struct {
	Q            string   `query:"q"             doc:"Free-text search query"`
	Sizes        []string `query:"sizes"         doc:"Size/variant attribute values, comma separated"`
	CategoryID   []string `query:"category_id"   doc:"Category IDs, comma separated"`
	CollectionID []string `query:"collection_id" doc:"Collection IDs, comma separated"`
	PriceMin     string   `query:"price_min"     doc:"Lower price bound"`
	PriceMax     string   `query:"price_max"     doc:"Upper price bound"`
	Order        string   `query:"order"         doc:"Catalog sort order, e.g. -created_at"`
	Fields       string   `query:"fields"        doc:"Field selection forwarded to the catalog"`
	RegionID     string   `query:"region_id"     doc:"Pricing region"`
	CountryCode  string   `query:"country_code"  doc:"Two-letter country code"`
}

func (p FilterParams) filters() (domain.Filters, error) {
	minPrice, err := parsePrice("price_min", p.PriceMin)
	if err != nil {
		return domain.Filters{}, err
	}
	maxPrice, err := parsePrice("price_max", p.PriceMax)
	if err != nil {
		return domain.Filters{}, err
	}
	return domain.NewFilters(domain.FilterSpec{
		Query:         p.Q,
		Sizes:         splitValues(p.Sizes),
		CategoryIDs:   splitValues(p.CategoryID),
		CollectionIDs: splitValues(p.CollectionID),
		PriceMin:      minPrice,
		PriceMax:      maxPrice,
		Order:         p.Order,
	}), nil
}

func (h *ProductsHandler) params(
	fp FilterParams,
	limit, offset int,
) (domain.QueryParams, error) {
	filters, err := fp.filters()
	if err != nil {
		return domain.QueryParams{}, err
	}
	country := fp.CountryCode
	if strings.TrimSpace(country) == "" {
		country = h.defaults.CountryCode
	}
	region := fp.RegionID
	if strings.TrimSpace(region) == "" {
		region = h.defaults.RegionID
	}
	return domain.NewQueryParams(filters, limit, offset, fp.Fields, region, country)
}

// ListProductsInput holds the query parameters for listing products.
type ListProductsInput struct {
	FilterParams
	Limit  int `query:"limit"  default:"12" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0"  minimum:"0"               doc:"Items to skip"`
}

// ListProductsOutput is the response for one page of products.
type ListProductsOutput struct {
	Body struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"    example:"57"                     doc:"Total matches, possibly estimated"`
		Limit    int              `json:"limit"    example:"12"`
		Offset   int              `json:"offset"   example:"0"`
		Strategy string           `json:"strategy" example:"MEILI_SIZE_INTERSECTION" doc:"Retrieval strategy used"`
	}
}

// ListProducts returns one page of products matching the filters.
func (h *ProductsHandler) ListProducts(
	ctx context.Context,
	input *ListProductsInput,
) (*ListProductsOutput, error) {
	p, err := h.params(input.FilterParams, input.Limit, input.Offset)
	if err != nil {
		return nil, toHTTPError(err)
	}

	list, err := h.lister.ListProducts(ctx, p)
	if err != nil {
		return nil, toHTTPError(err)
	}

	resp := &ListProductsOutput{}
	resp.Body.Products = nonNil(list.Products)
	resp.Body.Count = list.Count
	resp.Body.Limit = list.Limit
	resp.Body.Offset = list.Offset
	resp.Body.Strategy = engine.SelectStrategy(p.Filters).String()
	return resp, nil
}

// RegisterProductRoutes registers the product list route with the huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      "GET",
		Path:        "/api/v1/store/products",
		Summary:     "List products",
		Description: "Returns one page of products matching the free-text query, " +
			"size filters and native catalog filters.",
		Tags: []string{"products"},
		Errors: []int{
			422, 502, 504,
		},
	}, h.ListProducts)
}

// toHTTPError maps engine and upstream failures onto HTTP statuses.
func toHTTPError(err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(verr.Error())
	case errors.Is(err, httpjson.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("upstream timed out: " + err.Error())
	default:
		return huma.Error502BadGateway("upstream request failed: " + err.Error())
	}
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, &domain.ValidationError{
			Subject:  "filters",
			Problems: []string{fmt.Sprintf("%s must be a non-negative number, got %q", name, raw)},
		}
	}
	return &v, nil
}

// splitValues accepts both repeated and comma separated values.
func splitValues(in []string) []string {
	var out []string
	for _, v := range in {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func nonNil(p []domain.Product) []domain.Product {
	if p == nil {
		return []domain.Product{}
	}
	return p
}
