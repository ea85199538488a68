package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/catalog-search/internal/engine"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// ListPagesInput holds the query parameters for loading a run of pages.
type ListPagesInput struct {
	FilterParams
	Start    int `query:"start"     default:"1"  minimum:"1"               doc:"First page, 1-indexed"`
	End      int `query:"end"       default:"1"  minimum:"1"               doc:"Last page, inclusive"`
	PageSize int `query:"page_size" default:"12" minimum:"1" maximum:"200" doc:"Products per page"`
	More     int `query:"more"      default:"0"  minimum:"0" maximum:"10"  doc:"Extra pages to append after end"`
}

// ListPagesOutput is the accumulated result of a page run.
type ListPagesOutput struct {
	Body struct {
		Products    []domain.Product `json:"products"`
		TotalCount  int              `json:"total_count"   example:"57"`
		HasNextPage bool             `json:"has_next_page" example:"true"`
		NextOffset  int              `json:"next_offset"   example:"24"`
		Start       int              `json:"start"         example:"1"`
		End         int              `json:"end"           example:"2"`
		PageSize    int              `json:"page_size"     example:"12"`
	}
}

// ListPages loads pages start through end, in one engine call when the
// range fits the request limit and in limit-sized chunks otherwise, then
// appends up to more further pages while the result reports another page.
func (h *ProductsHandler) ListPages(
	ctx context.Context,
	input *ListPagesInput,
) (*ListPagesOutput, error) {
	// Validate the filters up front so a bad request never reaches the engine.
	if _, err := h.params(input.FilterParams, input.PageSize, 0); err != nil {
		return nil, toHTTPError(err)
	}

	fetch := func(ctx context.Context, limit, offset int) (*domain.ProductList, error) {
		p, err := h.params(input.FilterParams, limit, offset)
		if err != nil {
			return nil, err
		}
		return h.lister.ListProducts(ctx, p)
	}

	acc, err := engine.NewAccumulator(fetch, input.PageSize)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	if err := acc.Load(ctx, domain.PageRange{Start: input.Start, End: input.End}); err != nil {
		return nil, toHTTPError(err)
	}
	for range input.More {
		if !acc.HasNextPage() {
			break
		}
		if err := acc.FetchNextPage(ctx); err != nil {
			return nil, toHTTPError(err)
		}
	}

	resp := &ListPagesOutput{}
	resp.Body.Products = nonNil(acc.Items())
	resp.Body.TotalCount = acc.Count()
	resp.Body.HasNextPage = acc.HasNextPage()
	resp.Body.NextOffset = acc.NextOffset()
	resp.Body.Start = input.Start
	resp.Body.End = input.End
	resp.Body.PageSize = input.PageSize
	return resp, nil
}

// RegisterPageRoutes registers the page-run route with the huma API.
func RegisterPageRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-product-pages",
		Method:      "GET",
		Path:        "/api/v1/store/products/pages",
		Summary:     "Load a run of product pages",
		Description: "Fetches pages start through end, as a single request when " +
			"the range fits within 200 products and in 200-product chunks otherwise, " +
			"and reports whether another page follows. Used for infinite scrolling.",
		Tags: []string{"products"},
		Errors: []int{
			422, 502, 504,
		},
	}, h.ListPages)
}
