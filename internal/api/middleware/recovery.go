package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/catalog-search/internal/metrics"
)

const maxStack = 8 << 10

// Recovery returns Echo middleware that turns a handler panic into a 500
// response carrying the request ID, and logs the stack.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				buf := make([]byte, maxStack)
				buf = buf[:runtime.Stack(buf, false)]
				metrics.HTTPPanicsTotal.Inc()

				reqID := RequestID(c)
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", reqID,
					"stack", string(buf),
				)

				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"title":      "Internal Server Error",
					"detail":     "internal server error",
					"request_id": reqID,
				})
			}()
			return next(c)
		}
	}
}
