package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/repo-memory/internal/service"
)

// RepoHandler serves the demo repository analysis.
type RepoHandler struct {
	assistant *service.AssistantService
	logger    *slog.Logger
}

func NewRepoHandler(assistant *service.AssistantService, logger *slog.Logger) *RepoHandler {
	return &RepoHandler{assistant: assistant, logger: logger}
}

// HandleAnalyze returns the sample analysis after a short artificial delay.
//
// HTTP: GET /api/repo/analyze
func (h *RepoHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("using mock analysis data for demo")

	data, err := h.assistant.Analyze(r.Context())
	if err != nil {
		writeFailure(w, "Failed to analyze repository", err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Message: "Repository analyzed successfully",
		Data:    data,
	})
}

// HandleFile returns placeholder details for any file path.
//
// HTTP: GET /api/repo/file/*
func (h *RepoHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}

	writeData(w, h.assistant.FileDetails(path))
}
