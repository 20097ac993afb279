package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/service"
)

// AIHandler serves the keyword-matched "assistant" endpoints.
type AIHandler struct {
	assistant *service.AssistantService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewAIHandler(assistant *service.AssistantService, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		assistant: assistant,
		validate:  validator.New(),
		logger:    logger,
	}
}

// GenerateTourRequest is the body of POST /api/ai/generate-tour. Role is optional.
type GenerateTourRequest struct {
	Role string `json:"role"`
}

// TourResponse echoes the requested role next to the tour.
type TourResponse struct {
	Success bool             `json:"success"`
	Data    []model.TourStep `json:"data"`
	Role    string           `json:"role"`
}

// HandleGenerateTour returns the onboarding tour for a role.
//
// HTTP: POST /api/ai/generate-tour  {"role":"devops"}
//
// Unknown roles get the backend tour; the response's "role" still echoes the
// request. An empty body is allowed.
func (h *AIHandler) HandleGenerateTour(w http.ResponseWriter, r *http.Request) {
	var req GenerateTourRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Debug("generating onboarding tour", slog.String("role", req.Role))

	tour, err := h.assistant.GenerateTour(r.Context(), req.Role)
	if err != nil {
		writeFailure(w, "Failed to generate onboarding tour", err)
		return
	}

	writeJSON(w, http.StatusOK, TourResponse{Success: true, Data: tour.Steps, Role: tour.Role})
}

// AskRequest is the body of POST /api/ai/ask.
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// HandleAsk answers a question from the canned answers.
//
// HTTP: POST /api/ai/ask  {"question":"How is authentication handled?"}
//
// Response: 200 {"success":true,"data":{"question":...,"answer":...}}
// Errors:   400 "Question is required"
func (h *AIHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Debug("ask validation failed", slog.Any("error", err))
		writeError(w, apperror.ValidationFailed("question", "Question is required"))
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeError(w, err)
			return
		}
		writeFailure(w, "Failed to answer question", err)
		return
	}

	writeData(w, answer)
}

// HandleStarterTasks returns the suggested first tasks.
//
// HTTP: GET /api/ai/starter-tasks
func (h *AIHandler) HandleStarterTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.assistant.StarterTasks(r.Context())
	if err != nil {
		writeFailure(w, "Failed to suggest starter tasks", err)
		return
	}

	writeData(w, tasks)
}

// maxBodyBytes caps request bodies; the largest legitimate one is a question.
const maxBodyBytes = 64 << 10

// decodeBody reads a JSON body into dst. An empty body leaves dst zero.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperror.ValidationFailed("body", "Invalid request body")
}
