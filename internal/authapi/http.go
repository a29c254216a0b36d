package authapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/config"
)

// activatePath is the activation contract of the authentication service:
// PUT {base}/users/activate/{token}, answering 201 Created on success.
const activatePath = "/users/activate/"

// maxDrain bounds how much of a response body is read before closing.
const maxDrain = 64 * 1024

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient builds a client for the service at cfg.BaseURL. The
// underlying http.Client carries no timeout: a confirmation resolves when
// the service or the transport does.
func NewClient(cfg config.AuthAPIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  "confirm-frontend",
		httpClient: &http.Client{},
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the activation URL for token. The token is path-escaped
// and never cleaned, so any string maps to exactly one request path.
func (c *Client) URL(token string) string {
	return c.baseURL + activatePath + url.PathEscape(token)
}

// Confirm issues a single activation request for token.
func (c *Client) Confirm(ctx context.Context, token string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.URL(token), nil)
	if err != nil {
		return Failure(fmt.Errorf("authapi: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failure(fmt.Errorf("authapi: activate: %w", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	c.logger.Debugw("activation response", "status", resp.StatusCode, "request_id", RequestID(ctx))
	return ResultFromStatus(resp.StatusCode)
}
