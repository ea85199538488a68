package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type loggerKey struct{}

// RequestID returns the request ID assigned by RequestLog, or "".
func RequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// LoggerFrom returns the request-scoped logger stored by RequestLog, or
// fallback when ctx carries none.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}

// RequestLog returns Echo middleware that assigns a request ID, stores a
// logger tagged with it in the request context, and logs one line per
// request. Successful probe requests are logged at debug; 4xx at warn and
// 5xx at error.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			reqLog := log.With("request_id", reqID)
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), loggerKey{}, reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			reqLog.Log(req.Context(), levelFor(routePath(c), status), "request",
				"method", req.Method,
				"path", req.URL.Path,
				"query", req.URL.RawQuery,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

func levelFor(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case isProbe(path):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
