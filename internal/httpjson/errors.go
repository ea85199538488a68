package httpjson

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// maxBodyExcerpt bounds the response body quoted in an HTTPError.
const maxBodyExcerpt = 280

// ErrTimeout matches any TimeoutError via errors.Is.
var ErrTimeout = errors.New("upstream request timed out")

// TimeoutError is returned when the per-call timeout aborts a request.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %dms for %s", e.Timeout.Milliseconds(), e.Path)
}

// Is reports whether target is ErrTimeout.
func (*TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap exposes the underlying deadline error.
func (*TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// HTTPError is returned for any non-2xx upstream response.
type HTTPError struct {
	Path       string
	StatusCode int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(
		"upstream error for %s (status %d %s): %s",
		e.Path,
		e.StatusCode,
		e.StatusText,
		e.Body,
	)
}

func newHTTPError(path string, status int, body []byte) *HTTPError {
	return &HTTPError{
		Path:       path,
		StatusCode: status,
		StatusText: http.StatusText(status),
		Body:       excerpt(string(body), maxBodyExcerpt),
	}
}

// excerpt truncates s to at most n characters, marking the cut with an
// ellipsis.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
