// Package main is the entry point for the cs CLI client.
package main

import (
	"github.com/donaldgifford/catalog-search/cmd/cs/cmd"
)

func main() {
	cmd.Execute()
}
