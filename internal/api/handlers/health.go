// Package handlers implements HTTP handlers for the catalog-search API.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/catalog-search/internal/metrics"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	deps []Pinger
}

// NewHealthHandler creates a new HealthHandler. Readiness fails when any
// dependency fails its ping. With no dependencies the service is always ready.
func NewHealthHandler(deps ...Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	metrics.HealthzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every dependency is reachable, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	for _, d := range h.deps {
		if err := d.Ping(c.Request().Context()); err != nil {
			metrics.ReadyzUp.Set(0)
			return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
		}
	}
	metrics.ReadyzUp.Set(1)
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
