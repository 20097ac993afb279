package github

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the GitHub API.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("github: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether GitHub rejected the token.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the resource does not exist or is hidden from the token.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func parseError(status int, body []byte) error {
	e := &Error{StatusCode: status}
	if err := json.Unmarshal(body, e); err != nil || e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
