// Package engine selects a search strategy per request, merges the id lists
// from the search index and the catalog, and paginates hydrated products.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/catalog-search/internal/catalog"
	"github.com/donaldgifford/catalog-search/internal/collect"
	"github.com/donaldgifford/catalog-search/internal/metrics"
	"github.com/donaldgifford/catalog-search/pkg/ids"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

const instrumentationName = "github.com/donaldgifford/catalog-search/internal/engine"

// Engine answers product list requests.
type Engine struct {
	search   *collect.SearchCollector
	variants *collect.VariantCollector
	catalog  catalog.Catalog
	hydrator *Hydrator
	log      *slog.Logger
	tracer   trace.Tracer
	returned metric.Int64Histogram
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(e *Engine) {
		e.tracer = tp.Tracer(instrumentationName)
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	search *collect.SearchCollector,
	variants *collect.VariantCollector,
	cat catalog.Catalog,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		search:   search,
		variants: variants,
		catalog:  cat,
		hydrator: NewHydrator(cat),
		log:      slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}

	returned, err := otel.Meter(instrumentationName).Int64Histogram(
		"cs.engine.products_returned",
		metric.WithDescription("Products returned per list request."),
	)
	if err != nil {
		e.log.Warn("creating otel histogram", "error", err)
	}
	e.returned = returned
	return e
}

// ListProducts validates p, runs the strategy its filters select and returns
// one page of hydrated products with the best count for that strategy.
func (e *Engine) ListProducts(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	strategy := SelectStrategy(p.Filters)
	label := strategy.String()

	ctx, span := e.tracer.Start(ctx, "engine."+label, trace.WithAttributes(
		attribute.String("strategy", label),
		attribute.Int("limit", p.Limit),
		attribute.Int("offset", p.Offset),
	))
	defer span.End()

	start := time.Now()
	metrics.EngineRequestsTotal.WithLabelValues(label).Inc()

	list, err := e.run(ctx, strategy, p)
	metrics.EngineDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EngineErrorsTotal.WithLabelValues(label).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.log.Warn("product list failed",
			"strategy", label,
			"query", p.Filters.Query(),
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("count", list.Count),
		attribute.Int("returned", len(list.Products)),
	)
	if e.returned != nil {
		e.returned.Record(ctx, int64(len(list.Products)),
			metric.WithAttributes(attribute.String("strategy", label)))
	}
	e.log.Debug("products listed",
		"strategy", label,
		"count", list.Count,
		"returned", len(list.Products),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return list, nil
}

func (e *Engine) run(
	ctx context.Context,
	strategy domain.Strategy,
	p domain.QueryParams,
) (*domain.ProductList, error) {
	switch strategy {
	case domain.StrategyMeiliSizeIntersection:
		return e.listIntersection(ctx, p)
	case domain.StrategyMeiliOnly:
		return e.listSearchOnly(ctx, p)
	case domain.StrategySizeOnlyFallback:
		return e.listSizeOnly(ctx, p)
	case domain.StrategyDefaultMedusa:
		return e.listCatalog(ctx, p)
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// listIntersection collects both sources concurrently. A failure in one
// branch does not cancel the other; the first error is returned once both
// finish.
func (e *Engine) listIntersection(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	var searchIDs, variantIDs []domain.ProductID

	var g errgroup.Group
	g.Go(func() error {
		found, err := e.search.CollectIDs(ctx, p.Filters.Query())
		if err != nil {
			return fmt.Errorf("collecting search ids: %w", err)
		}
		searchIDs = found
		return nil
	})
	g.Go(func() error {
		found, err := e.variants.CollectProductIDs(ctx, p.Filters.Sizes(), p.Filters.Query())
		if err != nil {
			return fmt.Errorf("collecting variant ids: %w", err)
		}
		variantIDs = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return e.pageKnownSet(ctx, p, ids.Intersect(searchIDs, variantIDs))
}

func (e *Engine) listSearchOnly(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	page, pageIDs, err := e.search.Page(ctx, p.Filters.Query(), p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("searching page: %w", err)
	}

	estimated := 0
	if page.EstimatedTotalHits != nil {
		estimated = *page.EstimatedTotalHits
	}

	products, err := e.hydrator.FetchByIDs(ctx, hydrateRequest(p, pageIDs))
	if err != nil {
		return nil, err
	}

	return &domain.ProductList{
		Products: products,
		Count:    EstimateCount(p.Offset, len(page.Hits), p.Limit, estimated),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}, nil
}

func (e *Engine) listSizeOnly(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	variantIDs, err := e.variants.CollectProductIDs(ctx, p.Filters.Sizes(), "")
	if err != nil {
		return nil, fmt.Errorf("collecting variant ids: %w", err)
	}
	return e.pageKnownSet(ctx, p, ids.Dedupe(variantIDs))
}

func (e *Engine) listCatalog(ctx context.Context, p domain.QueryParams) (*domain.ProductList, error) {
	resp, err := e.catalog.ListProducts(ctx, catalog.ProductListRequest{
		Limit:       p.Limit,
		Offset:      p.Offset,
		Fields:      p.Fields,
		RegionID:    p.RegionID,
		CountryCode: p.CountryCode,
		Native:      p.Filters.Native(),
	})
	if err != nil {
		return nil, fmt.Errorf("listing catalog products: %w", err)
	}

	products := resp.Products
	if products == nil {
		products = []domain.Product{}
	}
	return &domain.ProductList{
		Products: products,
		Count:    resp.Count,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}, nil
}

// pageKnownSet slices an exact id set and hydrates the page. The count is
// the size of the whole set.
func (e *Engine) pageKnownSet(
	ctx context.Context,
	p domain.QueryParams,
	matching []domain.ProductID,
) (*domain.ProductList, error) {
	products, err := e.hydrator.FetchByIDs(ctx, hydrateRequest(p, ids.Slice(matching, p.Limit, p.Offset)))
	if err != nil {
		return nil, err
	}
	return &domain.ProductList{
		Products: products,
		Count:    len(matching),
		Limit:    p.Limit,
		Offset:   p.Offset,
	}, nil
}

func hydrateRequest(p domain.QueryParams, page []domain.ProductID) HydrateRequest {
	return HydrateRequest{
		IDs:         page,
		Fields:      p.Fields,
		RegionID:    p.RegionID,
		CountryCode: p.CountryCode,
		Native:      p.Filters.Native(),
	}
}
