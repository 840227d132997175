// Package apiclient calls the HRM backend over JSON/HTTP. Every request
// carries the session correlation id, is timed, and is logged through the
// api logger; failures are returned to the caller unchanged.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mvphrm/internal/correlation"
	"mvphrm/internal/logging"
)

// ErrBaseURLNotConfigured is returned before any network attempt when
// neither a backend URL nor a page origin is available.
var ErrBaseURLNotConfigured = errors.New("backend URL is not configured: set HRM_BACKEND_URL")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// genericMessage is used when the error body carries no string detail.
func genericMessage(status int) string {
	return fmt.Sprintf("API request failed with status %d", status)
}

// Client calls the HRM backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *logging.Logger
}

// New creates a client. An empty baseURL defers to the page origin carried in
// the request context. The HTTP client has no timeout of its own; callers
// bound requests through the context.
func New(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.New(logging.Options{Name: logging.APILoggerName})
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		log:     logger,
	}
}

type pageOriginKey struct{}

// WithPageOrigin records the origin of the page that triggered the request.
func WithPageOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, pageOriginKey{}, strings.TrimRight(origin, "/"))
}

func pageOrigin(ctx context.Context) string {
	if v, ok := ctx.Value(pageOriginKey{}).(string); ok {
		return v
	}
	return ""
}

// ResolveBaseURL returns the configured origin, else the page origin.
func (c *Client) ResolveBaseURL(ctx context.Context) (string, error) {
	if c.BaseURL != "" {
		return c.BaseURL, nil
	}
	if origin := pageOrigin(ctx); origin != "" {
		return origin, nil
	}
	return "", ErrBaseURLNotConfigured
}

// RequestOption adjusts an outgoing request after the defaults are set.
type RequestOption func(*http.Request)

// WithHeader sets a header, overriding the defaults.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Request sends body (JSON-encoded when non-nil) to endpoint and decodes the
// response into out. An empty success body leaves out untouched.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	base, err := c.ResolveBaseURL(ctx)
	if err != nil {
		return err
	}

	correlationID := correlation.FromContext(ctx)
	if correlationID == "" {
		correlationID = c.log.CorrelationID()
	}
	log := c.log.WithCorrelationID(correlationID)
	start := time.Now()

	log.Debug("API request starting", logging.Context{Method: method, Endpoint: endpoint})

	status, err := c.send(ctx, base+endpoint, call{
		method:        method,
		endpoint:      endpoint,
		correlationID: correlationID,
		body:          body,
		out:           out,
		opts:          opts,
		log:           log,
		start:         start,
	})
	duration := time.Since(start)
	observe(method, status, err, duration)
	if err != nil {
		log.Error("API request error", logging.Context{
			Method:   method,
			Endpoint: endpoint,
			Duration: duration,
			Error:    err.Error(),
		})
		return err
	}

	log.Debug("API request completed", logging.Context{
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: status,
		Duration:   duration,
	})
	return nil
}

type call struct {
	method        string
	endpoint      string
	correlationID string
	body          any
	out           any
	opts          []RequestOption
	log           *logging.Logger
	start         time.Time
}

func (c *Client) send(ctx context.Context, url string, cl call) (int, error) {
	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(correlation.Header, cl.correlationID)
	for _, opt := range cl.opts {
		opt(req)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
		cl.log.Error("API request failed", logging.Context{
			Method:     cl.method,
			Endpoint:   cl.endpoint,
			StatusCode: resp.StatusCode,
			Duration:   time.Since(cl.start),
			Error:      apiErr.Message,
		})
		return resp.StatusCode, apiErr
	}

	if cl.out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, cl.out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// errorMessage extracts a string "detail" from a JSON error body.
func errorMessage(status int, body []byte) string {
	if !gjson.ValidBytes(body) {
		return genericMessage(status)
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type != gjson.String || detail.Str == "" {
		return genericMessage(status)
	}
	return detail.Str
}

// Do is the typed form of Request.
func Do[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts ...RequestOption) (T, error) {
	var out T
	if err := c.Request(ctx, method, endpoint, body, &out, opts...); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
