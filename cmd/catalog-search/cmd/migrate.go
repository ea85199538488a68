package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/catalog-search/internal/config"
	"github.com/donaldgifford/catalog-search/internal/store"
	"github.com/donaldgifford/catalog-search/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the search cache table",
	Long:  "Applies the embedded SQL migrations used by the postgres cache backend.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	s, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer s.Close()

	log.Info("running migrations", "host", cfg.Database.Host)
	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations complete")
	return nil
}
