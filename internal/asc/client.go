// Package asc is the App Store Connect resource client: a pooled HTTP
// client that signs every request with a short-lived ES256 token, retries
// transient failures once, and normalizes collection responses into pages.
package asc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/query"
	"github.com/plexatic/storeconnect/pkg/types"
)

// DefaultBaseURL is the production App Store Connect API host.
const DefaultBaseURL = "https://api.appstoreconnect.apple.com"

const defaultTimeout = 30 * time.Second

// ResponseCache caches GET response bodies keyed by request URL. Implemented
// by the sqlite cache; nil disables caching.
type ResponseCache interface {
	Get(url string) ([]byte, bool)
	Put(url string, body []byte) error
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	AppID      string
	Timeout    time.Duration
	MaxRetries int
	Cache      ResponseCache
	Logger     *slog.Logger
}

// Client fetches paginated App Store Connect resources. Safe for
// concurrent use.
type Client struct {
	base       string
	appID      string
	httpc      *http.Client
	tokens     *TokenSource
	maxRetries int
	cache      ResponseCache
	log        *slog.Logger
}

// NewClient builds a resource client around a token source.
func NewClient(tokens *TokenSource, opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		base:       base,
		appID:      opts.AppID,
		httpc:      &http.Client{Transport: transport, Timeout: timeout},
		tokens:     tokens,
		maxRetries: opts.MaxRetries,
		cache:      opts.Cache,
		log:        logger,
	}
}

// DefaultAppID returns the configured fallback app ID, if any.
func (c *Client) DefaultAppID() string { return c.appID }

// Fetch retrieves and normalizes one collection page. A non-empty cursor
// on the spec is the verbatim next-page URL and wins over Path+Params.
func (c *Client) Fetch(ctx context.Context, spec query.Spec) (types.Page, error) {
	target := spec.Cursor
	if target == "" {
		target = c.url(spec.Path, spec.Params)
	}
	raw, err := c.getJSON(ctx, target)
	if err != nil {
		return types.Page{}, err
	}
	return Normalize(raw)
}

// Get retrieves a single resource payload without collection
// normalization (detail and sub-resource endpoints).
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (map[string]any, error) {
	return c.getJSON(ctx, c.url(path, params))
}

func (c *Client) url(path string, params map[string]string) string {
	if len(params) == 0 {
		return c.base + path
	}
	return c.base + path + "?" + query.Spec{Path: path, Params: params}.Encode()
}

func (c *Client) getJSON(ctx context.Context, rawURL string) (map[string]any, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			return decodeBody(body)
		}
	}

	body, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	raw, err := decodeBody(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(rawURL, body); err != nil {
			c.log.Warn("response cache write failed", "error", err)
		}
	}
	return raw, nil
}

func decodeBody(body []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errs.Wrap(errs.KindMalformedResponse, err, "response is not a JSON object")
	}
	return raw, nil
}

// do performs an authenticated GET with a single retry on transient
// failures. Auth failures and client errors are never retried; context
// cancellation aborts immediately.
func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	requestID := uuid.NewString()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errs.Wrap(errs.KindTransport, ctx.Err(), "request cancelled")
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			c.log.Warn("retrying request",
				"request_id", requestID,
				"attempt", attempt,
				"url", rawURL,
			)
		}

		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, err, "invalid request URL %s", rawURL)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		c.log.Debug("api request", "request_id", requestID, "url", rawURL, "attempt", attempt)

		resp, err := c.httpc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errs.Wrap(errs.KindTransport, ctx.Err(), "request cancelled")
			}
			lastErr = errs.Wrap(errs.KindTransport, err, "request to %s failed", rawURL)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = errs.Wrap(errs.KindTransport, readErr, "reading response from %s", rawURL)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, errs.New(errs.KindAuth,
				"App Store Connect rejected the credentials (HTTP %d)", resp.StatusCode).
				With("status", resp.StatusCode).
				With("body", truncate(body, 512))

		case resp.StatusCode >= 500:
			lastErr = errs.New(errs.KindTransport, "server error (HTTP %d) from %s", resp.StatusCode, rawURL).
				With("status", resp.StatusCode)
			continue

		default:
			return nil, errs.New(errs.KindTransport, "request to %s failed (HTTP %d)", rawURL, resp.StatusCode).
				With("status", resp.StatusCode).
				With("body", truncate(body, 512))
		}
	}
	return nil, lastErr
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s... (%d bytes)", b[:n], len(b))
}
