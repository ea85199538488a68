// Package main is the entry point for the catalog-search service.
package main

import (
	"os"

	"github.com/donaldgifford/catalog-search/cmd/catalog-search/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
