package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx answer from the backend. Message is the backend's
// user-facing "message" field.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports a missing, invalid or expired token.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports an unknown route or resource.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func parseError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
