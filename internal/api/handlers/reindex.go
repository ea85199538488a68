package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Reindexer rebuilds the local search index from the catalog.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// ReindexHandler triggers search index rebuilds.
type ReindexHandler struct {
	reindexer Reindexer
}

// NewReindexHandler creates a new ReindexHandler. A nil reindexer means the
// search backend is remote and every request is rejected with 409.
func NewReindexHandler(r Reindexer) *ReindexHandler {
	return &ReindexHandler{reindexer: r}
}

// ReindexOutput is the response body for a reindex.
type ReindexOutput struct {
	Body struct {
		Indexed    int   `json:"indexed"     example:"1240" doc:"Products written to the index"`
		DurationMS int64 `json:"duration_ms" example:"812"`
	}
}

// Reindex rebuilds the local index synchronously.
func (h *ReindexHandler) Reindex(ctx context.Context, _ *struct{}) (*ReindexOutput, error) {
	if h.reindexer == nil {
		return nil, huma.Error409Conflict("search backend is remote; nothing to reindex")
	}

	start := time.Now()
	n, err := h.reindexer.Reindex(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}

	resp := &ReindexOutput{}
	resp.Body.Indexed = n
	resp.Body.DurationMS = time.Since(start).Milliseconds()
	return resp, nil
}

// RegisterReindexRoutes registers the reindex route with the huma API.
func RegisterReindexRoutes(api huma.API, h *ReindexHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "reindex-search",
		Method:      "POST",
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild the local search index",
		Description: "Walks the catalog and replaces the in-process search index. " +
			"Only available with the local search backend.",
		Tags:   []string{"search"},
		Errors: []int{409, 502, 504},
	}, h.Reindex)
}
