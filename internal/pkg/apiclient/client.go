package apiclient

import (
	"bytes"
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

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DefaultTimeout  = 30 * time.Second
	RequestIDHeader = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// Config describes one REST backend.
type Config struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// SessionEnder ends the operator's session when a backend rejects its token.
type SessionEnder interface {
	Logout()
}

// Client sends requests to one REST backend on behalf of the signed-in operator.
// The bearer token is read from the token source on every request. Failures
// are never retried.
type Client struct {
	name     string
	baseURL  *url.URL
	http     *http.Client
	tokens   oauth2.TokenSource
	session  SessionEnder
	notifier notify.Notifier
}

// New returns a client for cfg. tokens supplies the bearer token, session is
// logged out on 401 and notifier receives 401/403/5xx reports; each may be nil.
func New(cfg Config, tokens oauth2.TokenSource, session SessionEnder, notifier notify.Notifier) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s base URL: %w", cfg.Name, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid %s base URL %q: scheme and host required", cfg.Name, cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		name:     cfg.Name,
		baseURL:  base,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		session:  session,
		notifier: notifier,
	}, nil
}

func (c *Client) Name() string {
	return c.name
}

// Origin returns scheme://host of the backend.
func (c *Client) Origin() string {
	return c.baseURL.Scheme + "://" + c.baseURL.Host
}

// Request sends method to path with an optional JSON body and query params.
// Non-2xx answers are returned as *Error.
func (c *Client) Request(ctx context.Context, method, path string, body any, params url.Values) (*Response, error) {
	target := c.resolve(path, params)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	tok := c.token()
	if tok != nil {
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Error("API request failed", "service", c.name, "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, c.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.name, err)
	}

	slog.Debug("API request",
		"service", c.name,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
	}

	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	apiErr := parseError(c.name, method, path, resp.StatusCode, data)
	c.handleFailure(apiErr, requestID, tok != nil)
	return nil, apiErr
}

// Get is Request with GET and no body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, params)
}

// Fetch downloads an absolute URL or a path on this backend, authenticated like any other request.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return c.Request(ctx, http.MethodGet, rawURL, nil, nil)
	}
	return c.Get(ctx, rawURL, nil)
}

func (c *Client) resolve(path string, params url.Values) string {
	var target string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		target = path
	} else {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target = c.baseURL.String() + path
	}
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}
	return target
}

// token returns the session token at call time, or nil when signed out.
func (c *Client) token() *oauth2.Token {
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return nil
	}
	return tok
}

// handleFailure applies the session and notification policy. A 401 on a request
// sent without a token is a credential failure, not an expired session.
func (c *Client) handleFailure(apiErr *Error, requestID string, authenticated bool) {
	attrs := []any{
		"service", c.name,
		"method", apiErr.Method,
		"path", apiErr.Path,
		"status", apiErr.StatusCode,
		"request_id", requestID,
		"message", apiErr.Message,
	}

	switch {
	case errors.Is(apiErr, ErrUnauthorized) && !authenticated:
		slog.Info("API rejected credentials", attrs...)
	case errors.Is(apiErr, ErrUnauthorized):
		slog.Warn("API rejected session token, signing out", attrs...)
		if c.session != nil {
			c.session.Logout()
		}
		c.report(notify.LevelWarning, "Session expired", apiErr.UserMessage())
	case errors.Is(apiErr, ErrForbidden):
		slog.Warn("API denied request", attrs...)
		c.report(notify.LevelWarning, "Permission denied", apiErr.UserMessage())
	case errors.Is(apiErr, ErrServer):
		slog.Error("API server error", attrs...)
		c.report(notify.LevelError, "Server error", apiErr.UserMessage())
	default:
		slog.Info("API request rejected", attrs...)
	}
}

func (c *Client) report(level notify.Level, title, message string) {
	if c.notifier != nil {
		c.notifier.Notify(level, title, message)
	}
}
