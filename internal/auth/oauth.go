package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Scopes requested from GitHub. oauth2 joins them with spaces:
// scope=user:email read:user repo
var Scopes = []string{"user:email", "read:user", "repo"}

// ErrTokenExchange means GitHub answered the token request but did not hand out
// an access token (bad or reused code, wrong client secret, ...). Transport
// failures are returned unwrapped so callers can tell the two apart.
var ErrTokenExchange = errors.New("auth: token exchange failed")

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow.
//
// FLOW:
//  1. AuthURL builds the github.com/login/oauth/authorize URL the browser is sent to.
//  2. The user approves (or denies) on GitHub.
//  3. GitHub redirects to the callback with a short-lived "code".
//  4. Exchange trades the code for an access token, server to server.
//
// Unlike a cookie-session login, the access token itself is the product here:
// it is handed to the frontend, which sends it back as a Bearer token.
type GitHubProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewGitHubProvider creates a GitHubProvider.
//
// oauthBaseURL is normally "https://github.com"; tests point it at an httptest server.
// callbackURL must match the "Authorization callback URL" of the OAuth App exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL, oauthBaseURL string, httpClient *http.Client) *GitHubProvider {
	base := strings.TrimRight(oauthBaseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/login/oauth/authorize",
				TokenURL:  base + "/login/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
// An empty state is omitted from the URL.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
//
// Errors:
//   - wraps ErrTokenExchange when GitHub replied without an access_token
//     (including replies carrying an "error" field)
//   - returns the transport error otherwise (DNS, connection refused, timeout)
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("auth: calling GitHub token endpoint: %w", err)
		}
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrTokenExchange)
	}

	return token.AccessToken, nil
}
