// Package apiclient is the typed gateway to the catalog REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Observer receives one callback per completed API call. Status is 0 when
// no response arrived.
type Observer interface {
	ObserveAPICall(method string, status int, elapsed time.Duration)
}

// Client wraps interactions with the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a call observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient constructs a client for baseURL. A zero timeout leaves calls
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET with optional query values and decodes the JSON reply.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// PostJSON sends body as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PatchJSON sends a partial update as JSON.
func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

// PostForm sends a multipart body.
func (c *Client) PostForm(ctx context.Context, path string, form *Multipart, out any) error {
	return c.sendForm(ctx, http.MethodPost, path, form, out)
}

// PatchForm sends a multipart partial update.
func (c *Client) PatchForm(ctx context.Context, path string, form *Multipart, out any) error {
	return c.sendForm(ctx, http.MethodPatch, path, form, out)
}

// Delete issues a DELETE. Any 2xx body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *Multipart, out any) error {
	if form == nil {
		form = NewMultipart()
	}
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("apiclient: encode form %s %s: %w", method, path, err)
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	if contentType == "" {
		// Multipart callers pass their own boundary type; everything else
		// talks JSON.
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		c.logger.Warn("api call failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(method, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api call rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return newStatusError(method, path, resp.StatusCode, raw)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}
	return nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveAPICall(method, status, time.Since(start))
	}
}
