// Package catalog provides a client for the commerce backend's store API,
// abstracted behind an interface for testability.
package catalog

import (
	"context"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// ProductListRequest defines the parameters of a product list call.
type ProductListRequest struct {
	IDs         []domain.ProductID
	Limit       int
	Offset      int
	Fields      string
	RegionID    string
	CountryCode string

	// Native holds filters the catalog applies itself (category, collection,
	// price range, order), already shaped as request parameters.
	Native map[string]any
}

// VariantListRequest defines the parameters of a variant list call.
type VariantListRequest struct {
	OptionValue string
	Query       string
	Limit       int
	Offset      int
}

// Catalog defines the catalog operations the search engine consumes.
type Catalog interface {
	ListProducts(ctx context.Context, req ProductListRequest) (*domain.ProductList, error)
	ListVariants(ctx context.Context, req VariantListRequest) (*domain.VariantListPage, error)
}
