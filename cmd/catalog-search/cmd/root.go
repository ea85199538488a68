// Package cmd implements the CLI commands for catalog-search.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "catalog-search",
	Short: "Product search and pagination over a headless commerce catalog",
	Long: "An API service that combines full-text search with size filtering " +
		"over a commerce backend's store API, computing correct counts and " +
		"pages for every filter combination.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file path (environment only when empty)")
	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(searchCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command, for documentation generators.
func Root() *cobra.Command {
	return rootCmd
}
