package handler

// RESPONSE HELPERS:
// Every JSON body this API sends has a "success" flag. Successful calls carry
// their payload under "data" (or "user" for verify); failures look like
//
//	{"success": false, "message": "Failed to fetch repositories"}
//
// with an optional "error" detail. The frontend shows "message" verbatim.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/repo-memory/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// DataResponse wraps a successful payload.
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; the body follows.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeData sends 200 {"success":true,"data":...}.
func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: data})
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation   → 400
//	apperror.ErrUnauthorized → 401
//	apperror.ErrNotFound     → 404
//	apperror.ErrExpired      → 410
//	apperror.ErrUpstream     → 500 (GitHub failed; the cause is logged by the service)
//
// AppError.Cause is never sent. Errors that are not an *AppError become a
// generic 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrExpired):
			status = http.StatusGone
		}

		writeJSON(w, status, ErrorResponse{Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}

// writeFailure sends 500 with a route-specific message and the error text,
// for the demo endpoints whose only failure is an aborted request.
func writeFailure(w http.ResponseWriter, message string, err error) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
