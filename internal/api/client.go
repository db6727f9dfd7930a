// Package api is a read-only client for the OpenCell HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/vidyasagar/cellsurf/internal/browser"
)

const (
	DefaultBaseURL   = "https://opencell.czbiohub.org/api"
	DefaultTimeout   = 15 * time.Second
	DefaultCacheSize = 256

	maxBodySize      = 20 * 1024 * 1024 // the full cell line list is several MB
	defaultUserAgent = "cellsurf/0.1 (terminal OpenCell explorer; +https://github.com/vidyasagar/cellsurf)"
)

var (
	// ErrStatus matches every non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Is lets callers test with errors.Is(err, ErrStatus) or ErrNotFound.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return true
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	CacheSize  int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches and decodes API responses. Successful response bodies are
// cached by URL; concurrent requests for the same URL share one round trip.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	timeout   time.Duration
	cache     *lru.Cache[string, []byte]
	flight    singleflight.Group
	logger    *slog.Logger
}

// New creates a client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: browser.SharedTransport,
			Timeout:   opts.Timeout,
		}
	}

	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      hc,
		userAgent: defaultUserAgent,
		timeout:   opts.Timeout,
		cache:     cache,
		logger:    opts.Logger.With("component", "api"),
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Purge drops every cached response.
func (c *Client) Purge() {
	c.cache.Purge()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getJSON fetches path and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.endpoint(path, query)

	body, err := c.fetch(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", u, err)
	}
	return nil
}

// fetch returns the body for u from the cache or a shared request. The
// shared request outlives any one caller's context, bounded by the client
// timeout; each caller stops waiting when its own context is done.
func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	if body, ok := c.cache.Get(u); ok {
		return body, nil
	}

	ch := c.flight.DoChan(u, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		body, err := c.do(rctx, u)
		if err != nil {
			return nil, err
		}
		c.cache.Add(u, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetching %s: %w", u, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared in-flight request", "url", u)
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "url", u, "error", err)
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("response", "url", u, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
