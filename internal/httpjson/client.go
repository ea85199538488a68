// Package httpjson provides the JSON-over-HTTP client shared by the catalog
// and search index clients. It builds query strings, attaches static auth
// headers, enforces a per-call timeout and returns typed errors. It never
// retries.
package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/catalog-search/internal/metrics"
)

// DefaultTimeout is the per-call timeout used when none is configured.
const DefaultTimeout = 10 * time.Second

var errCallTimeout = errors.New("per-call timeout elapsed")

// Client performs GET requests against one upstream and decodes JSON.
type Client struct {
	name    string
	baseURL string
	headers http.Header
	timeout time.Duration
	client  *http.Client
	limiter *Limiter
	log     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHeader adds a static header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value != "" {
			c.headers.Set(key, value)
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLimiter gates every call through l.
func WithLimiter(l *Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a client for the upstream called name (used as a metric label)
// rooted at baseURL.
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: http.Header{},
		timeout: DefaultTimeout,
		client:  &http.Client{},
		log:     slog.Default(),
	}
	c.headers.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the configured per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// FetchJSON issues GET baseURL+path?params and decodes the JSON body into dst.
// dst may be nil to discard the body.
func (c *Client) FetchJSON(ctx context.Context, path string, params Params, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", c.name, path, err)
		}
	}

	u := c.baseURL + path
	if q := BuildQuery(params); q != "" {
		u += "?" + q
	}

	callCtx, cancel := context.WithTimeoutCause(ctx, c.timeout, errCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header = c.headers.Clone()

	start := time.Now()
	status, body, err := c.do(req)
	c.observe(status, start, err)
	if err != nil {
		if c.timedOut(ctx, callCtx) {
			metrics.UpstreamTimeoutsTotal.WithLabelValues(c.name).Inc()
			return &TimeoutError{Path: path, Timeout: c.timeout}
		}
		return fmt.Errorf("requesting %s %s: %w", c.name, path, err)
	}

	c.log.Debug("upstream call",
		"upstream", c.name,
		"path", path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if status < 200 || status >= 300 {
		return newHTTPError(path, status, body)
	}

	if dst == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("parsing response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// timedOut reports whether the per-call deadline, rather than the caller's
// context, ended the request.
func (*Client) timedOut(parent, call context.Context) bool {
	return parent.Err() == nil && errors.Is(context.Cause(call), errCallTimeout)
}

func (c *Client) observe(status int, start time.Time, err error) {
	label := strconv.Itoa(status)
	if err != nil {
		label = "error"
	}
	metrics.UpstreamRequestDuration.
		WithLabelValues(c.name, label).
		Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.
		WithLabelValues(c.name, label).
		Inc()
}
