// Package domain defines the core types shared by the catalog search engine,
// its upstream clients and the HTTP API.
package domain

import (
	"encoding/json"
	"time"
)

// ProductID is an opaque product identifier, stable across the search index
// and the catalog.
type ProductID string

// Strategy names the combination of upstream sources used for a query.
type Strategy string

// Strategy constants, in decision-table priority order.
const (
	StrategyMeiliSizeIntersection Strategy = "MEILI_SIZE_INTERSECTION"
	StrategyMeiliOnly             Strategy = "MEILI_ONLY"
	StrategySizeOnlyFallback      Strategy = "SIZE_ONLY_FALLBACK"
	StrategyDefaultMedusa         Strategy = "DEFAULT_MEDUSA"
)

// String implements fmt.Stringer.
func (s Strategy) String() string { return string(s) }

// SearchHit is a single hit returned by the search index. Relevance is
// implied by the hit's position in the page; other hit fields are ignored.
type SearchHit struct {
	ID ProductID `json:"id"`
}

// SearchHitsPage is one page of search index results. EstimatedTotalHits is
// an approximation reported by the index and is never authoritative.
type SearchHitsPage struct {
	Hits               []SearchHit `json:"hits"`
	EstimatedTotalHits *int        `json:"estimatedTotalHits,omitempty"`
	Limit              *int        `json:"limit,omitempty"`
	Offset             *int        `json:"offset,omitempty"`
}

// VariantRecord is a catalog variant reduced to its owning product.
type VariantRecord struct {
	ID        string    `json:"id,omitempty"`
	ProductID ProductID `json:"product_id"`
}

// VariantListPage is one page of the catalog variant endpoint.
type VariantListPage struct {
	Variants []VariantRecord `json:"variants"`
	Count    *int            `json:"count,omitempty"`
}

// Product is a catalog product record. The catalog gives no ordering
// guarantee when products are listed by id.
type Product struct {
	ID           ProductID         `json:"id"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Handle       string            `json:"handle,omitempty"`
	Description  string            `json:"description,omitempty"`
	Thumbnail    string            `json:"thumbnail,omitempty"`
	Status       string            `json:"status,omitempty"`
	CollectionID string            `json:"collection_id,omitempty"`
	Categories   []ProductCategory `json:"categories,omitempty"`
	Variants     []ProductVariant  `json:"variants,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
	CreatedAt    *time.Time        `json:"created_at,omitempty"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}

// ProductCategory is the category reference embedded in a product.
type ProductCategory struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Handle string `json:"handle,omitempty"`
}

// ProductVariant is the variant shape embedded in a hydrated product.
type ProductVariant struct {
	ID                string          `json:"id"`
	Title             string          `json:"title,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	Options           []VariantOption `json:"options,omitempty"`
	CalculatedPrice   json.RawMessage `json:"calculated_price,omitempty"`
	InventoryQuantity *int            `json:"inventory_quantity,omitempty"`
}

// VariantOption is a single option value (for example a size) of a variant.
type VariantOption struct {
	ID       string `json:"id,omitempty"`
	Value    string `json:"value"`
	OptionID string `json:"option_id,omitempty"`
}

// ProductList is the engine's canonical output. Count is the best total for
// the active filter combination, not the catalog's unfiltered total.
type ProductList struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// PageRange is a contiguous, 1-indexed run of pages requested in one call.
type PageRange struct {
	Start int `json:"start" validate:"min=1"`
	End   int `json:"end"   validate:"gtefield=Start"`
}

// Pages returns the number of pages in the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// Validate checks that the range is well formed.
func (r PageRange) Validate() error {
	return validateStruct("page range", &r)
}
