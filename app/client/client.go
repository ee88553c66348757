// Package client talks to the task manager API over HTTP.
package client

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

	"taskmanager/app/logging"
	"taskmanager/app/models"
)

// TokenHeader carries the session token on every authenticated call.
const TokenHeader = "x-auth-token"

// DefaultBaseURL is the address of a locally running server.
const DefaultBaseURL = "http://localhost:5000"

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout applies to the default http.Client; zero means none.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a thin typed wrapper over the REST API. It holds no session
// state; tokens are passed per call.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", opts.BaseURL)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}, nil
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account and returns its token and profile.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile behind token.
func (c *Client) Me(ctx context.Context, token string) (*models.PublicUser, error) {
	var out models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context, token string) ([]*models.Task, error) {
	out := []*models.Task{}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a task and returns it as stored.
func (c *Client) CreateTask(ctx context.Context, token string, in models.CreateTaskInput) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask applies the non-nil fields of in and returns the result.
func (c *Client) UpdateTask(ctx context.Context, token, id string, in models.UpdateTaskInput) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		// Bodies that are not JSON leave Message empty.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
