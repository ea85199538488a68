package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/catalog-search/internal/config"
	"github.com/donaldgifford/catalog-search/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	if a.reindexer != nil {
		// The local index starts empty; fill it before taking traffic.
		n, err := a.scheduler.Reindex(ctx)
		if err != nil {
			log.Error("initial reindex failed", "error", err)
		} else {
			log.Info("initial reindex complete", "products", n)
		}
	}

	a.scheduler.Start()

	srv := a.server(a.router())
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"addr", srv.Addr,
			"search_backend", cfg.Search.Backend,
			"cache_backend", cfg.Cache.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("shutting down server: %w", err))
	}
	select {
	case <-a.scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduled jobs still running at shutdown")
	}
	a.close(shutdownCtx)

	log.Info("server stopped")
	return serveErr
}
