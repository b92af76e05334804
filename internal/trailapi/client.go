// Package trailapi fetches the trail listing from the trails API and exposes
// it as an observable Resource.
//
// Client does the HTTP work and classifies failures as domain.RequestError or
// domain.ValidationError. Resource wraps any fetch function in the
// Idle -> Loading -> Success | Error lifecycle.
package trailapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pkordes/trails/internal/domain"
	"github.com/pkordes/trails/internal/metrics"
	"github.com/pkordes/trails/internal/schema"
)

// TrailsPath is the fixed path the trail listing is read from.
const TrailsPath = "/api/trails"

// Client reads trails from a trails API.
type Client struct {
	endpoint string
	http     *http.Client
	validate bool
	log      *slog.Logger
	metrics  *metrics.Collector
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithValidation turns schema validation of responses on or off.
// Validation is on by default; with it off, the body is decoded as-is.
func WithValidation(on bool) Option {
	return func(c *Client) { c.validate = on }
}

// WithLogger sets the logger used for fetch outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records fetch outcomes and durations in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a Client for the API rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("trailapi.New: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("trailapi.New: base url %q must be http or https", baseURL)
	}

	c := &Client{
		endpoint: u.JoinPath(TrailsPath).String(),
		http:     http.DefaultClient,
		validate: true,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTrails issues GET /api/trails and returns the decoded trails.
// A transport failure or non-2xx status yields a *domain.RequestError; a body
// that does not match the Trail shape yields a *domain.ValidationError.
func (c *Client) ListTrails(ctx context.Context) ([]domain.Trail, error) {
	start := time.Now()
	trails, err := c.listTrails(ctx)
	c.observe(ctx, start, len(trails), err)
	return trails, err
}

func (c *Client) listTrails(ctx context.Context) ([]domain.Trail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, c.requestError(0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.requestError(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.requestError(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.requestError(0, fmt.Errorf("read body: %w", err))
	}

	if c.validate {
		return schema.ParseTrails(body)
	}
	return decodeRaw(body)
}

// decodeRaw decodes without schema checks. Bodies that cannot be decoded at
// all still fail; no partially decoded slice is returned.
func decodeRaw(body []byte) ([]domain.Trail, error) {
	var trails []domain.Trail
	if err := json.Unmarshal(body, &trails); err != nil {
		issue := domain.Issue{Code: "invalid_json", Message: "payload is not valid JSON"}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			issue = domain.Issue{
				Path:    typeErr.Field,
				Code:    "invalid_type",
				Message: "expected " + typeErr.Type.String() + ", received " + typeErr.Value,
			}
		} else if json.Valid(body) {
			issue = domain.Issue{Code: "invalid_type", Message: err.Error()}
		}
		return nil, &domain.ValidationError{Issues: []domain.Issue{issue}}
	}
	if trails == nil {
		trails = []domain.Trail{}
	}
	return trails, nil
}

func (c *Client) requestError(status int, err error) error {
	return &domain.RequestError{Method: http.MethodGet, URL: c.endpoint, StatusCode: status, Err: err}
}

func (c *Client) observe(ctx context.Context, start time.Time, n int, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, domain.ErrValidation):
		outcome = "validation_error"
	case err != nil:
		outcome = "request_error"
	}

	if c.metrics != nil {
		c.metrics.FetchesTotal.WithLabelValues(outcome).Inc()
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		c.log.WarnContext(ctx, "trail fetch failed",
			"url", c.endpoint,
			"outcome", outcome,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return
	}
	c.log.DebugContext(ctx, "trail fetch succeeded",
		"url", c.endpoint,
		"count", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Resource returns a Resource that loads trails through this client.
func (c *Client) Resource() *Resource {
	return NewResource(c.ListTrails)
}
