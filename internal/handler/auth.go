package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/repo-memory/internal/service"
)

// AuthHandler manages the GitHub OAuth login flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//   - HandleGitHubCallback → receive the code and redirect to the frontend with the session
//   - HandleRedeemHandoff  → hand a sealed session to the frontend once (handoff mode)
//
// The callback always answers with a redirect, never with JSON: the browser is
// mid-navigation and the frontend reads the outcome from the query string.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /api/auth/github
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	target, err := h.auth.LoginURL()
	if err != nil {
		h.logger.Error("building GitHub authorize URL", slog.Any("error", err))
		writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleGitHubCallback completes the OAuth login flow.
//
// HTTP: GET /api/auth/github/callback?code=xxx&state=yyy
//
//	or: GET /api/auth/github/callback?error=access_denied
//
// Redirects to <FRONTEND_URL>/auth/callback with ?data=, ?handoff= or ?error=.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target := h.auth.CompleteLogin(r.Context(), service.CallbackParams{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	})

	http.Redirect(w, r, target, http.StatusFound)
}

// HandleRedeemHandoff returns the AuthSession stored by the callback and deletes it.
//
// HTTP: POST /api/auth/handoff/{id}
//
// Response: 200 {"success":true,"data":{"token":...,"user":{...}}}
// Errors:   404 unknown or already redeemed, 410 expired
func (h *AuthHandler) HandleRedeemHandoff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.auth.RedeemHandoff(r.Context(), id)
	if err != nil {
		h.logger.Warn("handoff redemption failed", slog.String("id", id), slog.Any("error", err))
		writeError(w, err)
		return
	}

	writeData(w, session)
}
