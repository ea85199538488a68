package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

func pids(in ...string) []domain.ProductID {
	out := make([]domain.ProductID, len(in))
	for i, s := range in {
		out[i] = domain.ProductID(s)
	}
	return out
}

func hits(in ...string) []domain.SearchHit {
	out := make([]domain.SearchHit, len(in))
	for i, s := range in {
		out[i] = domain.SearchHit{ID: domain.ProductID(s)}
	}
	return out
}

func TestDedupeHits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hits []domain.SearchHit
		want []domain.ProductID
	}{
		{name: "repeats keep first occurrence", hits: hits("a", "b", "a", "c", "b"), want: pids("a", "b", "c")},
		{name: "no repeats", hits: hits("x", "y"), want: pids("x", "y")},
		{name: "empty ids skipped", hits: hits("", "a", ""), want: pids("a")},
		{name: "empty", hits: nil, want: pids()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DedupeHits(tt.hits))
		})
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	in := pids("p3", "p1", "p3", "p4", "p1")
	assert.Equal(t, pids("p3", "p1", "p4"), Dedupe(in))
	assert.Equal(t, pids("p3", "p1", "p3", "p4", "p1"), in, "input must not be modified")
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		primary   []domain.ProductID
		secondary []domain.ProductID
		want      []domain.ProductID
	}{
		{
			name:      "order from primary",
			primary:   pids("a", "b", "c", "d"),
			secondary: pids("c", "a", "e"),
			want:      pids("a", "c"),
		},
		{
			name:      "search and size scenario",
			primary:   pids("p1", "p2", "p3"),
			secondary: pids("p3", "p1", "p4"),
			want:      pids("p1", "p3"),
		},
		{
			name:      "duplicates in secondary are harmless",
			primary:   pids("a", "b"),
			secondary: pids("b", "b", "b"),
			want:      pids("b"),
		},
		{
			name:      "duplicates in primary emitted once",
			primary:   pids("a", "b", "a"),
			secondary: pids("a"),
			want:      pids("a"),
		},
		{name: "disjoint", primary: pids("a"), secondary: pids("b"), want: pids()},
		{name: "empty secondary", primary: pids("a", "b"), secondary: nil, want: pids()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Intersect(tt.primary, tt.secondary))
		})
	}
}

func TestOrderProducts(t *testing.T) {
	t.Parallel()

	records := []domain.Product{
		{ID: "x", Title: "X"},
		{ID: "y", Title: "Y"},
		{ID: "z", Title: "Z"},
		{ID: "stray", Title: "not requested"},
	}

	got := OrderProducts(records, pids("z", "x", "missing", "y"))

	titles := make([]string, len(got))
	for i := range got {
		titles[i] = got[i].Title
	}
	assert.Equal(t, []string{"Z", "X", "Y"}, titles)
	assert.Empty(t, OrderProducts(nil, pids("a")))
}

func TestSlice(t *testing.T) {
	t.Parallel()

	all := pids("a", "b", "c", "d", "e")

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []domain.ProductID
	}{
		{name: "first page", limit: 2, offset: 0, want: pids("a", "b")},
		{name: "middle page", limit: 2, offset: 2, want: pids("c", "d")},
		{name: "short last page", limit: 2, offset: 4, want: pids("e")},
		{name: "offset at end", limit: 2, offset: 5, want: pids()},
		{name: "offset past end", limit: 2, offset: 50, want: pids()},
		{name: "limit larger than list", limit: 100, offset: 0, want: all},
		{name: "zero limit", limit: 0, offset: 0, want: pids()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Slice(all, tt.limit, tt.offset))
		})
	}
}

func TestSlice_DoesNotAlias(t *testing.T) {
	t.Parallel()

	all := pids("a", "b", "c")
	page := Slice(all, 2, 0)
	page[0] = "mutated"
	assert.Equal(t, domain.ProductID("a"), all[0])
}
