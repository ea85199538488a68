package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// ErrNoMorePages is returned by FetchNextPage when every item has been
// fetched.
var ErrNoMorePages = errors.New("no more pages")

// PageFetcher loads limit products starting at offset.
type PageFetcher func(ctx context.Context, limit, offset int) (*domain.ProductList, error)

// AccumulatorState is the lifecycle state of an Accumulator.
type AccumulatorState int

// Accumulator states.
const (
	StateIdle AccumulatorState = iota
	StateInitialLoad
	StateSteady
	StateLoadingMore
)

func (s AccumulatorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialLoad:
		return "initial-load"
	case StateSteady:
		return "steady"
	case StateLoadingMore:
		return "loading-more"
	default:
		return fmt.Sprintf("AccumulatorState(%d)", int(s))
	}
}

// Accumulator implements "load more" pagination: an initial contiguous page
// range followed by one page per FetchNextPage, with items concatenated in
// fetch order. Items are not deduplicated across pages.
type Accumulator struct {
	mu         sync.Mutex
	fetch      PageFetcher
	pageSize   int
	maxLimit   int
	state      AccumulatorState
	items      []domain.Product
	baseOffset int
	fetched    int
	count      int
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption func(*Accumulator)

// WithMaxLimit caps the limit of a single fetch. Load splits a wider page
// range into consecutive fetches of at most n items. Defaults to
// domain.MaxLimit.
func WithMaxLimit(n int) AccumulatorOption {
	return func(a *Accumulator) {
		if n > 0 {
			a.maxLimit = n
		}
	}
}

// NewAccumulator creates an idle Accumulator.
func NewAccumulator(fetch PageFetcher, pageSize int, opts ...AccumulatorOption) (*Accumulator, error) {
	if fetch == nil {
		return nil, errors.New("page fetcher is required")
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}
	a := &Accumulator{fetch: fetch, pageSize: pageSize, maxLimit: domain.MaxLimit}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Load replaces the accumulated items with pages r.Start through r.End.
// A range that fits within the max limit is fetched in one call; a wider
// one is fetched in max-limit chunks and concatenated, stopping early at a
// short chunk or once the reported count is reached. The count comes from
// the last chunk. On failure previously accumulated items are kept.
func (a *Accumulator) Load(ctx context.Context, r domain.PageRange) error {
	if err := r.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.state
	a.state = StateInitialLoad

	offset := OffsetForPage(r.Start, a.pageSize)
	want := r.Pages() * a.pageSize

	var (
		items []domain.Product
		count int
	)
	for got := 0; got < want; {
		limit := min(want-got, a.maxLimit)
		resp, err := a.fetch(ctx, limit, offset+got)
		if err != nil {
			if prev == StateIdle {
				a.state = StateIdle
			} else {
				a.state = StateSteady
			}
			return fmt.Errorf("loading pages %d-%d at offset %d: %w", r.Start, r.End, offset+got, err)
		}

		items = append(items, resp.Products...)
		got += len(resp.Products)
		count = resp.Count
		if len(resp.Products) < limit || offset+got >= resp.Count {
			break
		}
	}

	a.items = items
	a.baseOffset = offset
	a.fetched = len(items)
	a.count = count
	a.state = StateSteady
	return nil
}

// FetchNextPage appends the next page after everything fetched so far.
func (a *Accumulator) FetchNextPage(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.hasNextPage() {
		return ErrNoMorePages
	}

	a.state = StateLoadingMore
	next := a.baseOffset + a.fetched
	resp, err := a.fetch(ctx, a.pageSize, next)
	a.state = StateSteady
	if err != nil {
		return fmt.Errorf("loading offset %d: %w", next, err)
	}

	a.items = append(a.items, resp.Products...)
	a.fetched += len(resp.Products)
	a.count = resp.Count
	if len(resp.Products) == 0 {
		// An empty page ends the run even if the count says otherwise.
		a.count = a.baseOffset + a.fetched
	}
	return nil
}

// HasNextPage reports whether the most recent count extends past what has
// been fetched.
func (a *Accumulator) HasNextPage() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasNextPage()
}

func (a *Accumulator) hasNextPage() bool {
	if a.state == StateIdle {
		return false
	}
	return a.baseOffset+a.fetched < a.count
}

// Items returns a copy of the accumulated products.
func (a *Accumulator) Items() []domain.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.items)
}

// Count returns the total reported by the most recent response.
func (a *Accumulator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// NextOffset returns the offset FetchNextPage would request.
func (a *Accumulator) NextOffset() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.baseOffset + a.fetched
}

// State returns the current lifecycle state.
func (a *Accumulator) State() AccumulatorState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Reset drops every accumulated item and returns to idle.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = nil
	a.baseOffset = 0
	a.fetched = 0
	a.count = 0
	a.state = StateIdle
}
