// Package github is a small client for the parts of the GitHub REST API the
// backend proxies: the authenticated user, their repositories, and a
// repository's metadata, languages and root contents.
//
// Every call is made on behalf of a user, so the access token is passed per
// call rather than configured on the Client. The token is attached by an
// oauth2.Transport wrapping the shared base transport.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 15 * time.Second

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "repo-memory"
)

// Client calls the GitHub REST API.
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (GitHub Enterprise, httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport sets the base transport the bearer token is layered on.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// NewClient creates a GitHub API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpClient returns an http.Client that sends "Authorization: Bearer <token>".
func (c *Client) httpClient(token string) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
}

// get performs an authenticated GET and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, token, path string, query url.Values, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("github: creating request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return fmt.Errorf("github: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("github: reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("github: decoding %s: %w", path, err)
	}
	return nil
}

// GetUser returns the profile of the token's owner (GET /user).
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.get(ctx, token, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListRepos returns the token owner's 50 most recently updated repositories.
func (c *Client) ListRepos(ctx context.Context, token string) ([]Repository, error) {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", "50")

	var repos []Repository
	if err := c.get(ctx, token, "/user/repos", q, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetRepo returns repository metadata (GET /repos/{owner}/{repo}).
func (c *Client) GetRepo(ctx context.Context, token, owner, repo string) (*Repository, error) {
	var r Repository
	if err := c.get(ctx, token, repoPath(owner, repo, ""), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetLanguages returns the byte count per language.
func (c *Client) GetLanguages(ctx context.Context, token, owner, repo string) (map[string]int64, error) {
	langs := map[string]int64{}
	if err := c.get(ctx, token, repoPath(owner, repo, "/languages"), nil, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// GetContents lists the repository root (files and directories, not recursive).
func (c *Client) GetContents(ctx context.Context, token, owner, repo string) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.get(ctx, token, repoPath(owner, repo, "/contents"), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func repoPath(owner, repo, suffix string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + suffix
}
