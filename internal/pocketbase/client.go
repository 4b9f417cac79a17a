// Package pocketbase is a minimal client for the Beszel hub's PocketBase API.
//
// A Client owns the process-wide session: Authenticate is expected to run
// once at startup and every FetchLatestUp reuses the token it stored. There
// is no re-authentication; if the first attempt fails, or the token later
// expires, fetches keep failing until the process restarts.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/logger"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to one PocketBase instance.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// NewClient creates a client for the PocketBase instance at baseURL.
// The default HTTP client has no timeout; callers bound requests with their context.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the PocketBase address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Authenticate logs in against the users collection and keeps the session token.
// The secret is never logged.
func (c *Client) Authenticate(ctx context.Context, identity, secret string) error {
	err := c.authenticate(ctx, identity, secret)
	if err != nil {
		logger.Error("Failed to authenticate with PocketBase: %v", err)
		logger.Error("   PocketBase URL: %s", c.baseURL)
		logger.Error("   Email: %s", identity)
		return err
	}
	logger.Success("Authenticated with PocketBase")
	return nil
}

func (c *Client) authenticate(ctx context.Context, identity, secret string) error {
	if c.baseURL == "" {
		return fmt.Errorf("pocketbase: base URL is not configured")
	}

	body, err := json.Marshal(authRequest{Identity: identity, Password: secret})
	if err != nil {
		return fmt.Errorf("pocketbase: failed to encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+constants.PB_AUTH_PATH, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("pocketbase: failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constants.HEADER_USER_AGENT)

	var out authResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("pocketbase: auth response did not contain a token")
	}

	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

// FetchLatestUp returns the most recently created system whose status is "up".
func (c *Client) FetchLatestUp(ctx context.Context) (*SystemRecord, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	q := url.Values{}
	q.Set("page", "1")
	q.Set("perPage", strconv.Itoa(constants.PB_PAGE_SIZE))
	q.Set("sort", constants.PB_SORT_NEWEST)
	q.Set("filter", fmt.Sprintf("status = %q", constants.PB_STATUS_UP))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+constants.PB_RECORDS_PATH+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pocketbase: failed to build list request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.HEADER_USER_AGENT)

	var out listResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, ErrNoActiveSystem
	}

	rec := out.Items[0]
	logger.Debug("Fetched system %s (%s), %d matching records", rec.ID, rec.Name, out.TotalItems)
	return &rec, nil
}

// do sends req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pocketbase: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var body errorResponse
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pocketbase: failed to decode response: %w", err)
	}
	return nil
}
