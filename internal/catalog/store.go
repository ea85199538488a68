package catalog

import (
	"context"
	"fmt"

	"github.com/donaldgifford/catalog-search/internal/httpjson"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const (
	defaultProductsPath = "/store/products"
	defaultVariantsPath = "/store/variants"

	// PublishableKeyHeader carries the storefront's publishable API key.
	PublishableKeyHeader = "x-publishable-api-key"
)

// StoreClient implements Catalog over the store HTTP API.
type StoreClient struct {
	http         *httpjson.Client
	productsPath string
	variantsPath string
}

// StoreOption configures the StoreClient.
type StoreOption func(*StoreClient)

// WithProductsPath overrides the product list endpoint path.
func WithProductsPath(p string) StoreOption {
	return func(c *StoreClient) {
		c.productsPath = p
	}
}

// WithVariantsPath overrides the variant list endpoint path.
func WithVariantsPath(p string) StoreOption {
	return func(c *StoreClient) {
		c.variantsPath = p
	}
}

// NewStoreClient creates a catalog client on top of an httpjson client that
// already carries the base URL and publishable key.
func NewStoreClient(hc *httpjson.Client, opts ...StoreOption) *StoreClient {
	c := &StoreClient{
		http:         hc,
		productsPath: defaultProductsPath,
		variantsPath: defaultVariantsPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts implements Catalog.ListProducts.
func (c *StoreClient) ListProducts(
	ctx context.Context,
	req ProductListRequest,
) (*domain.ProductList, error) {
	params := httpjson.Params{
		"limit":  req.Limit,
		"offset": req.Offset,
	}
	for k, v := range req.Native {
		params[k] = v
	}
	if len(req.IDs) > 0 {
		params["id"] = idStrings(req.IDs)
	}
	if req.Fields != "" {
		params["fields"] = req.Fields
	}
	if req.RegionID != "" {
		params["region_id"] = req.RegionID
	}
	if req.CountryCode != "" {
		params["country_code"] = req.CountryCode
	}

	var out domain.ProductList
	if err := c.http.FetchJSON(ctx, c.productsPath, params, &out); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	if out.Products == nil {
		out.Products = []domain.Product{}
	}
	return &out, nil
}

// ListVariants implements Catalog.ListVariants.
func (c *StoreClient) ListVariants(
	ctx context.Context,
	req VariantListRequest,
) (*domain.VariantListPage, error) {
	params := httpjson.Params{
		"limit":  req.Limit,
		"offset": req.Offset,
		"fields": "product_id",
	}
	if req.OptionValue != "" {
		params["options[value]"] = req.OptionValue
	}
	if req.Query != "" {
		params["q"] = req.Query
	}

	var out domain.VariantListPage
	if err := c.http.FetchJSON(ctx, c.variantsPath, params, &out); err != nil {
		return nil, fmt.Errorf("listing variants for %q: %w", req.OptionValue, err)
	}
	return &out, nil
}

func idStrings(in []domain.ProductID) []string {
	out := make([]string, len(in))
	for i, id := range in {
		out[i] = string(id)
	}
	return out
}
