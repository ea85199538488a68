// Package middleware provides Echo middleware for the catalog-search API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/catalog-search/internal/metrics"
)

// probePaths are scraped and probed often enough that recording them would
// drown the API series.
var probePaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

func isProbe(path string) bool {
	_, ok := probePaths[path]
	return ok
}

// routePath returns the registered route pattern, falling back to the raw
// URL path for unmatched requests.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

// Metrics returns Echo middleware that records request count, duration and
// in-flight requests, labelled by route pattern rather than raw URL.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)
			if isProbe(path) {
				return next(c)
			}

			metrics.HTTPInFlight.Inc()
			defer metrics.HTTPInFlight.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error so the recorded status is final.
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()
			return nil
		}
	}
}
