package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
		wantNoLog     bool
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/store/products?q=shirt",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/v1/store/products",
				`query="q=shirt"`,
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodPost,
			path:          "/api/v1/search/reindex",
			status:        http.StatusConflict,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"level=WARN",
				"request_id=custom-req-id-123",
				"status=409",
			},
		},
		{
			name:          "upstream failures log at error",
			method:        http.MethodGet,
			path:          "/api/v1/store/products",
			status:        http.StatusBadGateway,
			wantLogFields: []string{"level=ERROR", "status=502"},
		},
		{
			name:      "successful probe is below info",
			method:    http.MethodGet,
			path:      "/healthz",
			status:    http.StatusOK,
			wantNoLog: true,
		},
		{
			name:          "failed probe is logged",
			method:        http.MethodGet,
			path:          "/readyz",
			status:        http.StatusServiceUnavailable,
			wantLogFields: []string{"level=ERROR", "path=/readyz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var scoped *slog.Logger
			handler := RequestLog(logger)(func(c echo.Context) error {
				scoped = LoggerFrom(c.Request().Context(), nil)
				return c.NoContent(tt.status)
			})

			require.NoError(t, handler(c))
			require.NotNil(t, scoped)

			if tt.wantNoLog {
				assert.Empty(t, buf.String())
			}
			for _, field := range tt.wantLogFields {
				assert.Contains(t, buf.String(), field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			assert.Equal(t, respID, RequestID(c))
			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}
		})
	}
}

func TestLoggerFrom_Fallback(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.DiscardHandler)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	assert.Same(t, fallback, LoggerFrom(req.Context(), fallback))
}
