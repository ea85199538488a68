// Package main generates CLI reference documentation for the catalog-search
// server and the cs client, one subdirectory per command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	server "github.com/donaldgifford/catalog-search/cmd/catalog-search/cmd"
	client "github.com/donaldgifford/catalog-search/cmd/cs/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated docs")
	format := flag.String("format", "markdown", "output format: markdown, man, yaml")
	flag.Parse()

	trees := map[string]*cobra.Command{
		"catalog-search": server.Root(),
		"cs":             client.Root(),
	}

	if err := generate(trees, *output, *format); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(trees map[string]*cobra.Command, output, format string) error {
	for name, root := range trees {
		dir := filepath.Join(output, name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		root.DisableAutoGenTag = true

		var err error
		switch format {
		case "markdown":
			err = doc.GenMarkdownTree(root, dir)
		case "man":
			err = doc.GenManTree(root, &doc.GenManHeader{Title: name, Section: "1"}, dir)
		case "yaml":
			err = doc.GenYamlTree(root, dir)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			return fmt.Errorf("generating %s docs: %w", name, err)
		}
	}
	return nil
}
