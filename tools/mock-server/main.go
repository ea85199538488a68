// Package main implements a mock commerce backend for local development.
// It serves the store product and variant endpoints and a search endpoint
// from one JSON catalog fixture, so catalog-search can run without a real
// backend or search service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type variant struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Options []struct {
		Value string `json:"value"`
	} `json:"options"`
}

type category struct {
	ID string `json:"id"`
}

type product struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Handle       string `json:"handle"`
	Description  string `json:"description"`
	CollectionID string `json:"collection_id"`
	Categories   []category `json:"categories"`
	Variants []variant `json:"variants"`

	raw json.RawMessage
}

type catalogFixture struct {
	Products []json.RawMessage `json:"products"`
}

func main() {
	port := flag.Int("port", 9000, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/catalog.json", "path to catalog fixture")
	latency := flag.Duration("latency", 0, "delay added to every response")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	products, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(products))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock store server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, *latency, newMux(logger, products)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + *latency,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, products []product) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /store/search", searchHandler(logger, products))
	mux.HandleFunc("GET /store/variants", variantsHandler(logger, products))
	mux.HandleFunc("GET /store/products", productsHandler(logger, products))
	return mux
}

func loadFixture(path string) ([]product, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f catalogFixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	products := make([]product, 0, len(f.Products))
	for i, raw := range f.Products {
		var p product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parsing product %d: %w", i, err)
		}
		p.raw = raw
		products = append(products, p)
	}
	return products, nil
}

func requestLogger(logger *slog.Logger, latency time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		if latency > 0 {
			time.Sleep(latency)
		}
		next.ServeHTTP(w, r)
	})
}

// window parses limit and offset, falling back to defaultLimit.
func window(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	return items[offset:min(offset+limit, len(items))]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func searchHandler(logger *slog.Logger, products []product) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
		limit, offset := window(r, 20)

		var hits []map[string]string
		for _, p := range products {
			text := strings.ToLower(p.Title + " " + p.Description + " " + p.Handle)
			if q == "" || strings.Contains(text, q) {
				hits = append(hits, map[string]string{"id": p.ID, "title": p.Title})
			}
		}

		total := len(hits)
		writeJSON(w, http.StatusOK, map[string]any{
			"hits":               page(hits, limit, offset),
			"estimatedTotalHits": total,
			"limit":              limit,
			"offset":             offset,
		})
		logger.Info("search", "query", q, "matched", total, "offset", offset, "limit", limit)
	}
}

func variantsHandler(logger *slog.Logger, products []product) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := r.URL.Query().Get("options[value]")
		q := strings.ToLower(r.URL.Query().Get("q"))
		limit, offset := window(r, 50)

		var matched []map[string]string
		for _, p := range products {
			if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
				continue
			}
			for _, v := range p.Variants {
				if value != "" && !hasOption(v, value) {
					continue
				}
				matched = append(matched, map[string]string{"id": v.ID, "product_id": p.ID})
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"variants": page(matched, limit, offset),
			"count":    len(matched),
			"limit":    limit,
			"offset":   offset,
		})
		logger.Info("variants", "value", value, "matched", len(matched), "offset", offset)
	}
}

func hasOption(v variant, value string) bool {
	for _, o := range v.Options {
		if strings.EqualFold(o.Value, value) {
			return true
		}
	}
	return false
}

func productsHandler(logger *slog.Logger, products []product) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-publishable-api-key") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"type":    "not_allowed",
				"message": "A valid publishable key is required to proceed with the request",
			})
			return
		}

		query := r.URL.Query()
		ids := query["id[]"]
		categories := query["category_id[]"]
		collections := query["collection_id[]"]
		limit, offset := window(r, 50)

		var matched []json.RawMessage
		for _, p := range products {
			if len(ids) > 0 && !slices.Contains(ids, p.ID) {
				continue
			}
			if len(collections) > 0 && !slices.Contains(collections, p.CollectionID) {
				continue
			}
			if len(categories) > 0 && !slices.ContainsFunc(p.Categories, func(c category) bool {
				return slices.Contains(categories, c.ID)
			}) {
				continue
			}
			matched = append(matched, p.raw)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"products": page(matched, limit, offset),
			"count":    len(matched),
			"limit":    limit,
			"offset":   offset,
		})
		logger.Info("products", "ids", len(ids), "matched", len(matched), "offset", offset)
	}
}
