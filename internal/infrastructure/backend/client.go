package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
)

// Client talks to the marketplace REST backend on behalf of one browser
// session. The session's bearer credential is attached to every call when
// present; anonymous calls are permitted (public browse).
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs the session credential used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// OnUnauthorized registers the forced-logout hook. It fires centrally, once
// per 401 response, no matter which operation triggered the call.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Internal("Failed to encode request", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(string(body)), "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, query url.Values, payload interface{}, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Internal("Failed to encode request", err)
		}
		body = strings.NewReader(string(encoded))
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPut, path, query, body, contentType, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperrors.Internal("Failed to build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("backend request failed: %s %s: %v", method, path, err)
		return apperrors.Internal("Marketplace backend is unreachable", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Internal("Failed to read response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout()
		return apperrors.FromResponse(resp.StatusCode, payload)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.FromResponse(resp.StatusCode, payload)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.Internal("Failed to decode response", err)
	}
	return nil
}

// forceLogout clears the stored credential and notifies the session layer.
// All subsequent privileged calls fail closed until a new login.
func (c *Client) forceLogout() {
	c.mu.Lock()
	c.token = ""
	hook := c.onUnauthorized
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}
