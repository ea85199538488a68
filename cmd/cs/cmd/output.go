package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/catalog-search/internal/api/client"
	domain "github.com/donaldgifford/catalog-search/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(w io.Writer, products []domain.Product) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tHANDLE\tVARIANTS\n")
	for i := range products {
		tw.writef("%s\t%s\t%s\t%d\n",
			products[i].ID,
			truncate(products[i].Title, 40),
			truncate(products[i].Handle, 30),
			len(products[i].Variants),
		)
	}
	return tw.finish()
}

func printListSummary(w io.Writer, resp *apiclient.ProductsResponse) error {
	first := 0
	if len(resp.Products) > 0 {
		first = resp.Offset + 1
	}
	_, err := w.Write(fmtLine("\nShowing %d-%d of %d (%s)",
		first, resp.Offset+len(resp.Products), resp.Count, resp.Strategy))
	return err
}

func printPagesSummary(w io.Writer, resp *apiclient.PagesResponse) error {
	more := "no more pages"
	if resp.HasNextPage {
		more = fmt.Sprintf("more available from offset %d", resp.NextOffset)
	}
	_, err := w.Write(fmtLine("\nLoaded %d of %d, %s",
		len(resp.Products), resp.TotalCount, more))
	return err
}

func fmtLine(format string, args ...any) []byte {
	return []byte(fmt.Sprintf(format, args...) + "\n")
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
