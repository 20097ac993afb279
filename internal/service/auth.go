// Package service holds the business logic between the HTTP handlers and the
// GitHub client, the storage layer and the mock fixtures.
//
//	AuthHandler      → AuthService      → OAuthProvider, GitHubAPI, HandoffRepository
//	GitHubHandler    → RepoService      → GitHubAPI
//	RepoHandler/AI   → AssistantService → mockdata.Fixtures
//
// Services never touch http.Request or http.ResponseWriter.
package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/auth"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/repository"
	"github.com/sakif/repo-memory/internal/session"
)

// AuthOptions configures where the callback sends the browser and how the
// AuthSession travels.
type AuthOptions struct {
	FrontendURL string
	// UseHandoff stores the sealed AuthSession server-side and redirects with
	// ?handoff=<id> instead of ?data=<base64>.
	UseHandoff bool
	HandoffTTL time.Duration
}

// AuthService runs the GitHub OAuth flow.
//
// DEPENDENCIES (injected via NewAuthService):
//   - provider  OAuthProvider                → authorize URL, code exchange
//   - gh        GitHubAPI                    → GET /user with the new token
//   - states    *auth.StateSigner            → signed OAuth state
//   - handoffs  repository.HandoffRepository → only in handoff mode (may be nil otherwise)
//   - sealer    *auth.Sealer                 → only in handoff mode (may be nil otherwise)
type AuthService struct {
	provider OAuthProvider
	gh       GitHubAPI
	states   *auth.StateSigner
	handoffs repository.HandoffRepository
	sealer   *auth.Sealer
	opts     AuthOptions
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	provider OAuthProvider,
	gh GitHubAPI,
	states *auth.StateSigner,
	handoffs repository.HandoffRepository,
	sealer *auth.Sealer,
	opts AuthOptions,
	logger *slog.Logger,
) (*AuthService, error) {
	if opts.UseHandoff && (handoffs == nil || sealer == nil) {
		return nil, errors.New("service/auth: handoff mode needs a handoff repository and a sealer")
	}
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")

	return &AuthService{
		provider: provider,
		gh:       gh,
		states:   states,
		handoffs: handoffs,
		sealer:   sealer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// LoginURL returns the GitHub authorize URL, carrying a freshly signed state.
func (s *AuthService) LoginURL() (string, error) {
	state, err := s.states.Issue()
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing state: %w", err)
	}
	return s.provider.AuthURL(state), nil
}

// CallbackParams are the query parameters GitHub sends to the callback.
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// CompleteLogin handles the OAuth callback and returns the frontend URL to
// redirect to. It never fails: every failure becomes ?error=<code>.
//
// FLOW:
//  1. GitHub reported an error (user denied)      → ?error=<github's code>
//  2. No code                                     → ?error=no_code
//  3. State present but not ours or expired       → ?error=invalid_state
//  4. Code exchange rejected by GitHub            → ?error=token_exchange_failed
//  5. Fetch /user with the token
//  6. Hand the AuthSession to the frontend        → ?data=... or ?handoff=...
//
// Any other failure (network, storage, encoding) → ?error=server_error.
//
// State is only checked when present, so logins started from a bare authorize
// URL keep working.
func (s *AuthService) CompleteLogin(ctx context.Context, p CallbackParams) string {
	if p.Error != "" {
		s.logger.Warn("GitHub OAuth error", slog.String("error", p.Error))
		return s.callbackURL("error", p.Error)
	}

	if p.Code == "" {
		return s.callbackURL("error", session.ErrCodeNoCode)
	}

	if p.State != "" {
		if err := s.states.Validate(p.State); err != nil {
			s.logger.Warn("rejected OAuth state", slog.Any("error", err))
			return s.callbackURL("error", session.ErrCodeInvalidState)
		}
	}

	token, err := s.provider.Exchange(ctx, p.Code)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExchange) {
			s.logger.Error("token exchange error", slog.Any("error", err))
			return s.callbackURL("error", session.ErrCodeTokenExchangeFailed)
		}
		s.logger.Error("GitHub OAuth callback error", slog.Any("error", err))
		return s.callbackURL("error", session.ErrCodeServerError)
	}

	ghUser, err := s.gh.GetUser(ctx, token)
	if err != nil {
		s.logger.Error("GitHub OAuth callback error", slog.String("step", "fetch user"), slog.Any("error", err))
		return s.callbackURL("error", session.ErrCodeServerError)
	}

	authSession := model.AuthSession{
		Token: token,
		User: model.GitHubUser{
			ID:        ghUser.ID,
			Login:     ghUser.Login,
			Name:      ghUser.DisplayName(),
			AvatarURL: ghUser.AvatarURL,
			HTMLURL:   ghUser.HTMLURL,
		},
	}

	payload, err := json.Marshal(authSession)
	if err != nil {
		s.logger.Error("encoding auth session", slog.Any("error", err))
		return s.callbackURL("error", session.ErrCodeServerError)
	}

	if !s.opts.UseHandoff {
		s.logger.Info("user authenticated via GitHub", slog.String("login", ghUser.Login))
		return s.callbackURL("data", base64.StdEncoding.EncodeToString(payload))
	}

	id, err := s.storeHandoff(ctx, payload)
	if err != nil {
		s.logger.Error("storing handoff", slog.Any("error", err))
		return s.callbackURL("error", session.ErrCodeServerError)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("login", ghUser.Login),
		slog.String("handoffID", id),
	)
	return s.callbackURL("handoff", id)
}

// RedeemHandoff returns the AuthSession stored under id exactly once.
//
// Errors:
//   - apperror.ErrNotFound if the id is unknown, already redeemed, or handoff mode is off
//   - apperror.ErrExpired  if the record outlived HandoffTTL (it is deleted anyway)
func (s *AuthService) RedeemHandoff(ctx context.Context, id string) (*model.AuthSession, error) {
	if !s.opts.UseHandoff {
		return nil, apperror.NotFound("handoff", id)
	}

	h, err := s.handoffs.Take(ctx, id)
	if err != nil {
		return nil, err
	}

	if h.Expired(s.now()) {
		return nil, apperror.Expired("handoff", id)
	}

	payload, err := s.sealer.Open(h.Sealed)
	if err != nil {
		return nil, fmt.Errorf("service/auth: opening handoff %s: %w", id, err)
	}

	var a model.AuthSession
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("service/auth: decoding handoff %s: %w", id, err)
	}
	return &a, nil
}

func (s *AuthService) storeHandoff(ctx context.Context, payload []byte) (string, error) {
	now := s.now()

	// Redeemed records are deleted by Take; this sweeps the abandoned ones.
	if n, err := s.handoffs.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("purging expired handoffs", slog.Any("error", err))
	} else if n > 0 {
		s.logger.Debug("purged expired handoffs", slog.Int64("count", n))
	}

	sealed, err := s.sealer.Seal(payload)
	if err != nil {
		return "", err
	}

	h := &model.Handoff{
		ID:        xid.New().String(),
		Sealed:    sealed,
		ExpiresAt: now.Add(s.opts.HandoffTTL),
		CreatedAt: now,
	}
	if err := s.handoffs.Create(ctx, h); err != nil {
		return "", err
	}
	return h.ID, nil
}

// callbackURL builds <FRONTEND_URL>/auth/callback?<key>=<escaped value>.
func (s *AuthService) callbackURL(key, value string) string {
	return s.opts.FrontendURL + "/auth/callback?" + key + "=" + url.QueryEscape(value)
}
