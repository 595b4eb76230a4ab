package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/cv-builder-cli/internal/auth"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "cvb/1.0"

// refreshPath is the token refresh endpoint, called without a bearer token.
const refreshPath = "/api/auth/refresh"

// Strategy selects how a 401 response is recovered.
type Strategy int

const (
	// StrategyRefresh refreshes the session with the stored refresh token
	// and retries the original request exactly once. The default.
	StrategyRefresh Strategy = iota
	// StrategyLogout clears the session immediately without attempting a
	// refresh.
	StrategyLogout
)

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Response holds a decoded-enough backend response: status, headers, and
// the fully read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Client executes authenticated requests against the backend. On 401 it
// applies the caller's strategy; concurrent refreshes are collapsed into a
// single in-flight call that all waiters share.
type Client struct {
	baseURL  string
	http     *http.Client
	store    auth.Store
	opts     *Options
	refresh  singleflight.Group
	onLogout func()
}

// NewClient creates a client for the given base URL backed by the given
// token store.
func NewClient(baseURL string, store auth.Store, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		store:   store,
		opts:    opts,
	}
}

// OnLogout registers a hook invoked after the session is cleared by a
// failed recovery. The CLI uses it to tell the user to log in again.
func (c *Client) OnLogout(fn func()) {
	c.onLogout = fn
}

// Store returns the underlying token store.
func (c *Client) Store() auth.Store {
	return c.store
}

// Do executes an authenticated JSON request. body, when non-nil, is
// marshaled to JSON. Returns the response for any 2xx status; non-2xx
// statuses (after 401 recovery) are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body any, strategy Strategy) (*Response, error) {
	session, err := c.store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.AccessToken == "" {
		return nil, ErrNoSession
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload, session.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return c.checkStatus(path, resp)
	}

	if strategy == StrategyLogout {
		c.logout()
		return nil, ErrSessionExpired
	}

	refreshed, err := c.refreshSession(ctx, session.RefreshToken)
	if err != nil {
		c.logout()
		return nil, fmt.Errorf("token refresh failed: %w", ErrSessionExpired)
	}

	retry, err := c.send(ctx, method, path, payload, refreshed.AccessToken)
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		// One retry only. A second rejection means the refreshed token is
		// no good either, so the session is unrecoverable.
		c.logout()
		return nil, ErrSessionExpired
	}
	return c.checkStatus(path, retry)
}

// DoUnauthenticated executes a JSON request without a bearer token. Used
// only by login; everything else is authenticated.
func (c *Client) DoUnauthenticated(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	resp, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return nil, err
	}
	return c.checkStatus(path, resp)
}

// send performs one HTTP round-trip and reads the full body.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       bodyBytes,
	}, nil
}

// checkStatus maps non-2xx responses to *APIError, extracting the server's
// detail message when the body carries one.
func (c *Client) checkStatus(path string, resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		URL:        path,
	}
	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &detail); err == nil {
		if detail.Detail != "" {
			apiErr.Detail = detail.Detail
		} else if detail.Message != "" {
			apiErr.Detail = detail.Message
		}
	}
	return resp, apiErr
}

// refreshSession exchanges the refresh token for a new session and persists
// it. Concurrent callers share one refresh call; losers reuse the winner's
// tokens instead of racing the store with their own refresh.
func (c *Client) refreshSession(ctx context.Context, refreshToken string) (*types.Session, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		// A concurrent caller may already have refreshed; if the stored
		// refresh token moved on, its session is the fresh one.
		current, err := c.store.Get()
		if err == nil && current != nil && current.RefreshToken != refreshToken {
			return current, nil
		}
		return c.callRefresh(ctx, refreshToken)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Session), nil
}

// callRefresh performs the refresh round-trip and persists the result. The
// user record is replaced when the server returns one, since the user's
// candidate-profile linkage may have changed.
func (c *Client) callRefresh(ctx context.Context, refreshToken string) (*types.Session, error) {
	payload, err := json.Marshal(map[string]string{"token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        refreshPath,
		}
	}

	var refreshed struct {
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		User         *types.User `json:"user,omitempty"`
	}
	if err := json.Unmarshal(bodyBytes, &refreshed); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if refreshed.AccessToken == "" {
		return nil, fmt.Errorf("refresh response missing access token")
	}

	session := &types.Session{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
		User:         refreshed.User,
	}
	if session.User == nil {
		if prev, err := c.store.Get(); err == nil && prev != nil {
			session.User = prev.User
		}
	}
	if err := c.store.Set(session); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	return session, nil
}

func (c *Client) logout() {
	_ = c.store.Clear()
	if c.onLogout != nil {
		c.onLogout()
	}
}
