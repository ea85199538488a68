package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/catalog-search/api/openapi"
	"github.com/donaldgifford/catalog-search/internal/api/handlers"
	"github.com/donaldgifford/catalog-search/internal/api/middleware"
	"github.com/donaldgifford/catalog-search/internal/cache"
	"github.com/donaldgifford/catalog-search/internal/catalog"
	"github.com/donaldgifford/catalog-search/internal/collect"
	"github.com/donaldgifford/catalog-search/internal/config"
	"github.com/donaldgifford/catalog-search/internal/engine"
	"github.com/donaldgifford/catalog-search/internal/httpjson"
	"github.com/donaldgifford/catalog-search/internal/searchindex"
	"github.com/donaldgifford/catalog-search/internal/store"
	"github.com/donaldgifford/catalog-search/internal/telemetry"
	"github.com/donaldgifford/catalog-search/pkg/logger"
)

// app holds every wired component of a running service.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	telemetry *telemetry.Providers
	engine    *engine.Engine
	scheduler *engine.Scheduler

	// Set only for the local search backend.
	reindexer *searchindex.Reindexer
	local     *searchindex.LocalIndex

	// Set only for the postgres cache backend.
	store *store.PostgresStore
}

// buildApp wires the service from cfg. The caller must call close.
func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.close(context.WithoutCancel(ctx))
		}
	}()

	a.telemetry, err = telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        Version,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		MetricInterval: cfg.Telemetry.MetricInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	cat := catalog.NewStoreClient(
		a.upstream("catalog", cfg.Catalog.URL,
			httpjson.WithHeader(catalog.PublishableKeyHeader, cfg.Catalog.PublishableKey)),
		catalog.WithProductsPath(cfg.Catalog.ProductsPath),
		catalog.WithVariantsPath(cfg.Catalog.VariantsPath),
	)

	idx, err := a.buildIndex(cat)
	if err != nil {
		return nil, err
	}

	c, err := a.buildCache(ctx)
	if err != nil {
		return nil, err
	}

	search := collect.NewSearchCollector(idx,
		collect.WithSearchPageSize(cfg.Collector.SearchPageSize),
		collect.WithSearchMaxPages(cfg.Collector.SearchMaxPages),
		collect.WithSearchCache(c, cfg.Cache.TTL),
		collect.WithSearchLogger(logger.Component(log, "search-collector")),
	)
	variants := collect.NewVariantCollector(cat,
		collect.WithVariantPageSize(cfg.Collector.VariantPageSize),
		collect.WithVariantMaxPages(cfg.Collector.VariantMaxPages),
		collect.WithVariantQuery(cfg.Collector.VariantQuery),
		collect.WithVariantLogger(logger.Component(log, "variant-collector")),
	)

	a.engine = engine.NewEngine(search, variants, cat,
		engine.WithLogger(logger.Component(log, "engine")),
		engine.WithTracerProvider(a.telemetry.TracerProvider),
	)

	schedOpts := []engine.SchedulerOption{
		engine.WithJobTimeout(cfg.Upstream.Timeout * 10),
	}
	if a.reindexer != nil {
		schedOpts = append(schedOpts, engine.WithReindexJob(a.reindexer, cfg.Search.ReindexInterval))
	}
	if p, ok := c.(engine.CachePurger); ok {
		schedOpts = append(schedOpts, engine.WithPurgeJob(p, cfg.Cache.PurgeInterval))
	}
	a.scheduler, err = engine.NewScheduler(logger.Component(log, "scheduler"), schedOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	return a, nil
}

// upstream builds an httpjson client with the shared timeout and its own
// rate limiter.
func (a *app) upstream(name, baseURL string, opts ...httpjson.Option) *httpjson.Client {
	opts = append(opts,
		httpjson.WithTimeout(a.cfg.Upstream.Timeout),
		httpjson.WithLogger(logger.Component(a.log, name)),
	)
	if rl := a.cfg.Upstream.RateLimit; rl.PerSecond > 0 {
		opts = append(opts, httpjson.WithLimiter(httpjson.NewLimiter(rl.PerSecond, rl.Burst)))
	}
	return httpjson.New(name, baseURL, opts...)
}

func (a *app) buildIndex(cat catalog.Catalog) (searchindex.Index, error) {
	cfg := a.cfg.Search
	if cfg.Backend == config.SearchBackendLocal {
		local, err := searchindex.NewLocalIndex()
		if err != nil {
			return nil, fmt.Errorf("creating local search index: %w", err)
		}
		a.local = local
		a.reindexer = searchindex.NewReindexer(cat, local,
			searchindex.WithReindexPageSize(cfg.ReindexPageSize),
			searchindex.WithReindexMaxPages(cfg.ReindexMaxPages),
			searchindex.WithReindexLogger(logger.Component(a.log, "reindexer")),
		)
		return local, nil
	}

	var opts []httpjson.Option
	if cfg.APIKey != "" {
		opts = append(opts, httpjson.WithHeader("Authorization", "Bearer "+cfg.APIKey))
	}
	return searchindex.NewRemoteIndex(
		a.upstream("search", cfg.URL, opts...),
		searchindex.WithSearchPath(cfg.Path),
	), nil
}

func (a *app) buildCache(ctx context.Context) (cache.Cache, error) {
	switch a.cfg.Cache.Backend {
	case config.CacheBackendPostgres:
		s, err := store.NewPostgresStore(ctx, a.cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to cache database: %w", err)
		}
		a.store = s
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrating cache database: %w", err)
		}
		return s, nil
	case config.CacheBackendNone:
		return cache.Noop{}, nil
	default:
		return cache.NewMemory(), nil
	}
}

// router builds the Echo server with the huma API and operational routes.
func (a *app) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.Recovery(a.log),
		middleware.RequestLog(logger.Component(a.log, "http")),
		middleware.Tracing(a.telemetry.TracerProvider),
		middleware.Metrics(),
	)

	var deps []handlers.Pinger
	if a.store != nil {
		deps = append(deps, a.store)
	}
	health := handlers.NewHealthHandler(deps...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("catalog-search", Version)
	humaCfg.Info.Description = "Product search and pagination over the store API."
	api := humaecho.New(e, humaCfg)

	products := handlers.NewProductsHandler(a.engine, handlers.Defaults{
		CountryCode: a.cfg.Catalog.DefaultCountryCode,
		RegionID:    a.cfg.Catalog.DefaultRegionID,
	})
	handlers.RegisterProductRoutes(api, products)
	handlers.RegisterPageRoutes(api, products)

	var reindexer handlers.Reindexer
	if a.reindexer != nil {
		reindexer = a.scheduler
	}
	handlers.RegisterReindexRoutes(api, handlers.NewReindexHandler(reindexer))

	if err := openapi.RegisterRoutes(e, "Catalog Search API", openapi.DefaultSpecPath); err != nil {
		a.log.Warn("swagger ui disabled", "error", err)
	}

	return e
}

func (a *app) server(h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}
}

// close releases every resource buildApp acquired.
func (a *app) close(ctx context.Context) {
	var errs []error
	if a.local != nil {
		errs = append(errs, a.local.Close())
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("closing resources", "error", err)
	}
}
