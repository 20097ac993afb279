// Package client is a typed HTTP client for the Repository Memory System API.
//
// It is what the repomem CLI uses in place of the browser frontend: every
// method maps to one backend endpoint and unwraps the {"success","data"} envelope.
//
// Usage:
//
//	c := client.New("http://localhost:5000", client.WithToken(session.Token))
//	repos, err := c.ListRepos(ctx)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/repo-memory/internal/model"
)

const (
	// DefaultBaseURL is the backend's default listen address.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout covers the slowest demo endpoint plus three GitHub calls.
	DefaultTimeout = 30 * time.Second
)

// Client calls the backend API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the GitHub access token sent as "Authorization: Bearer".
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the {"success":true,"data":...} wrapper most endpoints use.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// do sends a request and decodes a 2xx body into result.
// Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseError(resp)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("client: decoding %s: %w", path, err)
	}
	return nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListRepos returns the token owner's repositories.
func (c *Client) ListRepos(ctx context.Context) ([]model.RepoSummary, error) {
	var env envelope[[]model.RepoSummary]
	if err := c.do(ctx, http.MethodGet, "/api/auth/user/repos", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Verify checks the token and returns the user it belongs to.
func (c *Client) Verify(ctx context.Context) (*model.VerifiedUser, error) {
	var res struct {
		Success bool                `json:"success"`
		User    *model.VerifiedUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// RepoStats fetches statistics for "owner/repo". The full name travels as a
// single path segment, so its slash is sent as %2F.
func (c *Client) RepoStats(ctx context.Context, fullName string) (*model.RepoStats, error) {
	var env envelope[*model.RepoStats]
	path := "/api/auth/repo/" + url.PathEscape(fullName) + "/stats"
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RedeemHandoff exchanges a one-time handoff id for the AuthSession.
func (c *Client) RedeemHandoff(ctx context.Context, id string) (*model.AuthSession, error) {
	var env envelope[*model.AuthSession]
	if err := c.do(ctx, http.MethodPost, "/api/auth/handoff/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// LoginURL is where a browser starts the GitHub login.
func (c *Client) LoginURL() string {
	return c.baseURL + "/api/auth/github"
}

// Analyze returns the demo repository analysis.
func (c *Client) Analyze(ctx context.Context) (*model.AnalysisData, error) {
	var env envelope[*model.AnalysisData]
	if err := c.do(ctx, http.MethodGet, "/api/repo/analyze", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// File returns the demo details of a file. Each path segment is escaped.
func (c *Client) File(ctx context.Context, path string) (*model.FileDetails, error) {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	var env envelope[*model.FileDetails]
	if err := c.do(ctx, http.MethodGet, "/api/repo/file/"+strings.Join(segments, "/"), nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Tour is an onboarding tour and the role the backend reports for it.
type Tour struct {
	Steps []model.TourStep
	Role  string
}

// GenerateTour requests the onboarding tour for role ("" for the default).
func (c *Client) GenerateTour(ctx context.Context, role string) (*Tour, error) {
	var body any
	if role != "" {
		body = map[string]string{"role": role}
	} else {
		body = struct{}{}
	}

	var res struct {
		Data []model.TourStep `json:"data"`
		Role string           `json:"role"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/generate-tour", body, &res); err != nil {
		return nil, err
	}
	return &Tour{Steps: res.Data, Role: res.Role}, nil
}

// Ask sends a question to the assistant.
func (c *Client) Ask(ctx context.Context, question string) (*model.ChatAnswer, error) {
	var env envelope[*model.ChatAnswer]
	if err := c.do(ctx, http.MethodPost, "/api/ai/ask", map[string]string{"question": question}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// StarterTasks returns the suggested first tasks.
func (c *Client) StarterTasks(ctx context.Context) ([]model.StarterTask, error) {
	var env envelope[[]model.StarterTask]
	if err := c.do(ctx, http.MethodGet, "/api/ai/starter-tasks", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
