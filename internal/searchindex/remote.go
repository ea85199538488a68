package searchindex

import (
	"context"
	"fmt"

	"github.com/donaldgifford/catalog-search/internal/httpjson"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const defaultSearchPath = "/store/search"

// RemoteIndex implements Index against the search service's HTTP endpoint.
type RemoteIndex struct {
	http *httpjson.Client
	path string
}

// RemoteOption configures the RemoteIndex.
type RemoteOption func(*RemoteIndex)

// WithSearchPath overrides the search endpoint path.
func WithSearchPath(p string) RemoteOption {
	return func(r *RemoteIndex) {
		r.path = p
	}
}

// NewRemoteIndex creates a search client on top of hc.
func NewRemoteIndex(hc *httpjson.Client, opts ...RemoteOption) *RemoteIndex {
	r := &RemoteIndex{
		http: hc,
		path: defaultSearchPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search implements Index.Search.
func (r *RemoteIndex) Search(
	ctx context.Context,
	req SearchRequest,
) (*domain.SearchHitsPage, error) {
	params := httpjson.Params{
		"query":  req.Query,
		"limit":  req.Limit,
		"offset": req.Offset,
	}

	var page domain.SearchHitsPage
	if err := r.http.FetchJSON(ctx, r.path, params, &page); err != nil {
		return nil, fmt.Errorf("searching %q: %w", req.Query, err)
	}
	return &page, nil
}
