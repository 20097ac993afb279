package service

import (
	"context"

	"github.com/sakif/repo-memory/internal/github"
)

// OAuthProvider is the part of auth.GitHubProvider the services use.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// GitHubAPI is the part of github.Client the services use.
// Every method takes the caller's access token.
type GitHubAPI interface {
	GetUser(ctx context.Context, token string) (*github.User, error)
	ListRepos(ctx context.Context, token string) ([]github.Repository, error)
	GetRepo(ctx context.Context, token, owner, repo string) (*github.Repository, error)
	GetLanguages(ctx context.Context, token, owner, repo string) (map[string]int64, error)
	GetContents(ctx context.Context, token, owner, repo string) ([]github.ContentEntry, error)
}

// compile-time check that the real client satisfies GitHubAPI
var _ GitHubAPI = (*github.Client)(nil)
