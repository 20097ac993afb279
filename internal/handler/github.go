package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/repo-memory/internal/auth"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/service"
)

// GitHubHandler serves the Bearer-protected GitHub proxy endpoints.
//
// All routes sit behind auth.RequireBearer, which rejects requests without a
// token before they get here.
type GitHubHandler struct {
	repos  *service.RepoService
	logger *slog.Logger
}

func NewGitHubHandler(repos *service.RepoService, logger *slog.Logger) *GitHubHandler {
	return &GitHubHandler{repos: repos, logger: logger}
}

// HandleListRepos returns the caller's repositories.
//
// HTTP: GET /api/auth/user/repos
// Auth: Bearer <GitHub token>
func (h *GitHubHandler) HandleListRepos(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromContext(r.Context())

	repos, err := h.repos.ListRepos(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, repos)
}

// VerifyResponse is the body of a successful GET /api/auth/verify.
type VerifyResponse struct {
	Success bool                `json:"success"`
	User    *model.VerifiedUser `json:"user"`
}

// HandleVerify checks that the token still works.
//
// HTTP: GET /api/auth/verify
// Auth: Bearer <GitHub token>
func (h *GitHubHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromContext(r.Context())

	user, err := h.repos.Verify(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{Success: true, User: user})
}

// HandleRepoStats returns synthesized statistics for one repository.
//
// HTTP: GET /api/auth/repo/{repoFullName}/stats
// Auth: Bearer <GitHub token>
//
// repoFullName is "owner/repo" with the slash URL-encoded (owner%2Frepo).
// chi matches on the raw path, so the parameter still holds %2F here; the
// service decodes it.
func (h *GitHubHandler) HandleRepoStats(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromContext(r.Context())

	stats, err := h.repos.Stats(r.Context(), token, chi.URLParam(r, "repoFullName"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, stats)
}
