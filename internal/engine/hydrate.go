package engine

import (
	"context"
	"fmt"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	"github.com/donaldgifford/catalog-search/pkg/ids"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// HydrateRequest names the products to fetch and the catalog context to
// fetch them in.
type HydrateRequest struct {
	IDs         []domain.ProductID
	Fields      string
	RegionID    string
	CountryCode string
	Native      map[string]any
}

// Hydrator turns an ordered id list into full product records.
type Hydrator struct {
	catalog catalog.Catalog
}

// NewHydrator creates a Hydrator backed by c.
func NewHydrator(c catalog.Catalog) *Hydrator {
	return &Hydrator{catalog: c}
}

// FetchByIDs fetches the products in one catalog call and returns them in
// req.IDs order. An empty id list returns an empty slice without calling the
// catalog. Ids the catalog does not return are skipped.
func (h *Hydrator) FetchByIDs(ctx context.Context, req HydrateRequest) ([]domain.Product, error) {
	if len(req.IDs) == 0 {
		return []domain.Product{}, nil
	}

	resp, err := h.catalog.ListProducts(ctx, catalog.ProductListRequest{
		IDs:         req.IDs,
		Limit:       len(req.IDs),
		Offset:      0,
		Fields:      req.Fields,
		RegionID:    req.RegionID,
		CountryCode: req.CountryCode,
		Native:      req.Native,
	})
	if err != nil {
		return nil, fmt.Errorf("hydrating %d products: %w", len(req.IDs), err)
	}

	return ids.OrderProducts(resp.Products, req.IDs), nil
}
