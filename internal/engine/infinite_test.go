package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

type fetchCall struct{ limit, offset int }

// catalogOf serves slices of a fixed product set and records each call.
type catalogOf struct {
	all   []domain.Product
	calls []fetchCall
	fail  error
}

func (c *catalogOf) fetch(_ context.Context, limit, offset int) (*domain.ProductList, error) {
	c.calls = append(c.calls, fetchCall{limit, offset})
	if c.fail != nil {
		return nil, c.fail
	}
	end := min(offset+limit, len(c.all))
	var page []domain.Product
	if offset < len(c.all) {
		page = c.all[offset:end]
	}
	return &domain.ProductList{Products: page, Count: len(c.all), Limit: limit, Offset: offset}, nil
}

func numbered(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{ID: domain.ProductID("p" + string(rune('a'+i)))}
	}
	return out
}

func TestNewAccumulator_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewAccumulator(nil, 10)
	require.Error(t, err)

	_, err = NewAccumulator((&catalogOf{}).fetch, 0)
	require.Error(t, err)
}

func TestAccumulator_LoadThenFetchMore(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(7)}
	acc, err := NewAccumulator(src.fetch, 2)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, acc.State())
	assert.False(t, acc.HasNextPage())

	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 2}))
	assert.Equal(t, StateSteady, acc.State())
	assert.Equal(t, []fetchCall{{limit: 4, offset: 0}}, src.calls)
	assert.Len(t, acc.Items(), 4)
	assert.Equal(t, 7, acc.Count())
	assert.True(t, acc.HasNextPage())
	assert.Equal(t, 4, acc.NextOffset())

	require.NoError(t, acc.FetchNextPage(context.Background()))
	require.NoError(t, acc.FetchNextPage(context.Background()))
	assert.Equal(t, []fetchCall{{4, 0}, {2, 4}, {2, 6}}, src.calls)
	assert.Len(t, acc.Items(), 7)
	assert.False(t, acc.HasNextPage())

	err = acc.FetchNextPage(context.Background())
	require.ErrorIs(t, err, ErrNoMorePages)
	assert.Len(t, src.calls, 3, "no fetch once exhausted")
}

func TestAccumulator_LoadMidRange(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(10)}
	acc, err := NewAccumulator(src.fetch, 3)
	require.NoError(t, err)

	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 2, End: 3}))
	assert.Equal(t, []fetchCall{{limit: 6, offset: 3}}, src.calls)
	assert.Equal(t, []domain.ProductID{"pd", "pe", "pf", "pg", "ph", "pi"}, productIDs(acc.Items()))

	require.NoError(t, acc.FetchNextPage(context.Background()))
	assert.Equal(t, fetchCall{limit: 3, offset: 9}, src.calls[1])
	assert.False(t, acc.HasNextPage())
}

func TestAccumulator_LoadChunksWideRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		rng       domain.PageRange
		wantCalls []fetchCall
		wantItems int
		wantNext  bool
	}{
		{
			name:      "range within the limit is one call",
			total:     10,
			rng:       domain.PageRange{Start: 1, End: 1},
			wantCalls: []fetchCall{{2, 0}},
			wantItems: 2,
			wantNext:  true,
		},
		{
			name:      "wide range split into limit-sized chunks",
			total:     10,
			rng:       domain.PageRange{Start: 1, End: 4},
			wantCalls: []fetchCall{{3, 0}, {3, 3}, {2, 6}},
			wantItems: 8,
			wantNext:  true,
		},
		{
			name:      "wide range from a later page",
			total:     20,
			rng:       domain.PageRange{Start: 2, End: 3},
			wantCalls: []fetchCall{{3, 2}, {1, 5}},
			wantItems: 4,
			wantNext:  true,
		},
		{
			name:      "short chunk stops early",
			total:     5,
			rng:       domain.PageRange{Start: 1, End: 4},
			wantCalls: []fetchCall{{3, 0}, {3, 3}},
			wantItems: 5,
			wantNext:  false,
		},
		{
			name:      "count reached on a full chunk",
			total:     6,
			rng:       domain.PageRange{Start: 1, End: 5},
			wantCalls: []fetchCall{{3, 0}, {3, 3}},
			wantItems: 6,
			wantNext:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &catalogOf{all: numbered(tt.total)}
			acc, err := NewAccumulator(src.fetch, 2, WithMaxLimit(3))
			require.NoError(t, err)

			require.NoError(t, acc.Load(context.Background(), tt.rng))
			assert.Equal(t, tt.wantCalls, src.calls)
			assert.Len(t, acc.Items(), tt.wantItems)
			assert.Equal(t, tt.total, acc.Count())
			assert.Equal(t, tt.wantNext, acc.HasNextPage())
			assert.Equal(t, OffsetForPage(tt.rng.Start, 2)+tt.wantItems, acc.NextOffset())
		})
	}
}

func TestAccumulator_LoadChunkFailureKeepsItems(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(10)}
	acc, err := NewAccumulator(src.fetch, 2, WithMaxLimit(3))
	require.NoError(t, err)
	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))

	failing := func(ctx context.Context, limit, offset int) (*domain.ProductList, error) {
		if offset > 0 {
			return nil, errors.New("upstream timeout")
		}
		return src.fetch(ctx, limit, offset)
	}
	acc.fetch = failing

	err = acc.Load(context.Background(), domain.PageRange{Start: 1, End: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at offset 3")
	assert.Equal(t, StateSteady, acc.State())
	assert.Equal(t, []domain.ProductID{"pa", "pb"}, productIDs(acc.Items()), "earlier load survives")
	assert.Equal(t, 2, acc.NextOffset())
}

func TestAccumulator_DefaultMaxLimit(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: make([]domain.Product, 1000)}
	acc, err := NewAccumulator(src.fetch, 100)
	require.NoError(t, err)

	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 5}))
	assert.Equal(t, []fetchCall{{200, 0}, {200, 200}, {100, 400}}, src.calls)
	assert.Len(t, acc.Items(), 500)
	for _, c := range src.calls {
		assert.LessOrEqual(t, c.limit, domain.MaxLimit)
	}
}

func TestAccumulator_InvalidRange(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(3)}
	acc, err := NewAccumulator(src.fetch, 2)
	require.NoError(t, err)

	require.Error(t, acc.Load(context.Background(), domain.PageRange{Start: 0, End: 1}))
	require.Error(t, acc.Load(context.Background(), domain.PageRange{Start: 3, End: 2}))
	assert.Empty(t, src.calls)
}

func TestAccumulator_ErrorsKeepItems(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(6)}
	acc, err := NewAccumulator(src.fetch, 2)
	require.NoError(t, err)

	src.fail = errors.New("upstream timeout")
	require.Error(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))
	assert.Equal(t, StateIdle, acc.State(), "failed first load returns to idle")

	src.fail = nil
	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))

	src.fail = errors.New("upstream timeout")
	err = acc.FetchNextPage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading offset 2")
	assert.Equal(t, StateSteady, acc.State())
	assert.Len(t, acc.Items(), 2)
	assert.True(t, acc.HasNextPage(), "retry is possible")

	src.fail = nil
	require.NoError(t, acc.FetchNextPage(context.Background()))
	assert.Len(t, acc.Items(), 4)
}

func TestAccumulator_EmptyPageEndsRun(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(_ context.Context, limit, offset int) (*domain.ProductList, error) {
		calls++
		if offset == 0 {
			return &domain.ProductList{Products: numbered(limit), Count: 100}, nil
		}
		return &domain.ProductList{Count: 100}, nil
	}

	acc, err := NewAccumulator(fetch, 2)
	require.NoError(t, err)
	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))
	require.NoError(t, acc.FetchNextPage(context.Background()))
	assert.False(t, acc.HasNextPage())
	require.ErrorIs(t, acc.FetchNextPage(context.Background()), ErrNoMorePages)
	assert.Equal(t, 2, calls)
}

func TestAccumulator_NoCrossPageDedupe(t *testing.T) {
	t.Parallel()

	pages := map[int][]domain.Product{
		0: {{ID: "p1"}, {ID: "p2"}},
		2: {{ID: "p2"}, {ID: "p3"}},
	}
	fetch := func(_ context.Context, _, offset int) (*domain.ProductList, error) {
		return &domain.ProductList{Products: pages[offset], Count: 4}, nil
	}

	acc, err := NewAccumulator(fetch, 2)
	require.NoError(t, err)
	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))
	require.NoError(t, acc.FetchNextPage(context.Background()))
	assert.Equal(t, []domain.ProductID{"p1", "p2", "p2", "p3"}, productIDs(acc.Items()))
}

func TestAccumulator_Reset(t *testing.T) {
	t.Parallel()

	src := &catalogOf{all: numbered(5)}
	acc, err := NewAccumulator(src.fetch, 2)
	require.NoError(t, err)
	require.NoError(t, acc.Load(context.Background(), domain.PageRange{Start: 1, End: 1}))

	acc.Reset()
	assert.Equal(t, StateIdle, acc.State())
	assert.Empty(t, acc.Items())
	assert.Equal(t, 0, acc.Count())
	assert.False(t, acc.HasNextPage())
	require.ErrorIs(t, acc.FetchNextPage(context.Background()), ErrNoMorePages)
}

func TestAccumulatorState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "initial-load", StateInitialLoad.String())
	assert.Equal(t, "steady", StateSteady.String())
	assert.Equal(t, "loading-more", StateLoadingMore.String())
	assert.Equal(t, "AccumulatorState(9)", AccumulatorState(9).String())
}
