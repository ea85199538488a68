// Package searchindex provides full-text search backends that return product
// ids in relevance order: a remote search service client and an in-process
// bleve index.
package searchindex

import (
	"context"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// SearchRequest defines one page of a free-text search.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
}

// Index defines a paged, relevance-ordered search backend.
type Index interface {
	Search(ctx context.Context, req SearchRequest) (*domain.SearchHitsPage, error)
}
