// Package cmd implements the cs CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/catalog-search/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "cs",
		Short: "CLI client for catalog-search",
		Long: "cs is a command-line client for the catalog-search API.\n" +
			"It lists products with search and size filters, browses page runs\n" +
			"the way an infinite-scrolling storefront does, and triggers reindexing.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.cs.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(reindexCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cs")
	}

	viper.SetEnvPrefix("CS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
