package searchindex

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// productDoc is the indexed projection of a catalog product.
type productDoc struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Handle      string `json:"handle"`
}

// LocalIndex implements Index with an in-memory bleve index. Replace swaps the
// whole index so products removed from the catalog disappear on reindex.
type LocalIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewLocalIndex creates an empty in-memory index.
func NewLocalIndex() (*LocalIndex, error) {
	idx, err := newMemIndex()
	if err != nil {
		return nil, err
	}
	return &LocalIndex{index: idx}, nil
}

func newMemIndex() (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return idx, nil
}

// Search implements Index.Search. A blank query matches every product.
func (l *LocalIndex) Search(
	ctx context.Context,
	req SearchRequest,
) (*domain.SearchHitsPage, error) {
	var q query.Query
	if text := strings.TrimSpace(req.Query); text != "" {
		q = bleve.NewMatchQuery(text)
	} else {
		q = bleve.NewMatchAllQuery()
	}

	sr := bleve.NewSearchRequestOptions(q, req.Limit, req.Offset, false)

	l.mu.RLock()
	res, err := l.index.SearchInContext(ctx, sr)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("searching local index for %q: %w", req.Query, err)
	}

	hits := make([]domain.SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, domain.SearchHit{ID: domain.ProductID(h.ID)})
	}

	total := int(res.Total)
	limit, offset := req.Limit, req.Offset
	return &domain.SearchHitsPage{
		Hits:               hits,
		EstimatedTotalHits: &total,
		Limit:              &limit,
		Offset:             &offset,
	}, nil
}

// Replace rebuilds the index from products and swaps it in atomically.
func (l *LocalIndex) Replace(products []domain.Product) error {
	next, err := newMemIndex()
	if err != nil {
		return err
	}

	batch := next.NewBatch()
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			continue
		}
		doc := productDoc{
			Title:       p.Title,
			Subtitle:    p.Subtitle,
			Description: p.Description,
			Handle:      strings.ReplaceAll(p.Handle, "-", " "),
		}
		if err := batch.Index(string(p.ID), doc); err != nil {
			_ = next.Close() //nolint:errcheck // discarding the partial index
			return fmt.Errorf("indexing product %s: %w", p.ID, err)
		}
	}
	if err := next.Batch(batch); err != nil {
		_ = next.Close() //nolint:errcheck // discarding the partial index
		return fmt.Errorf("writing index batch: %w", err)
	}

	l.mu.Lock()
	prev := l.index
	l.index = next
	l.mu.Unlock()

	return prev.Close()
}

// Count returns the number of indexed products.
func (l *LocalIndex) Count() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index.DocCount()
}

// Close releases the index.
func (l *LocalIndex) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index.Close()
}
