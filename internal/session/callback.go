package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/sakif/repo-memory/internal/model"
)

// Callback error codes the backend puts in ?error=. GitHub's own codes
// (access_denied, ...) pass through unchanged.
const (
	ErrCodeAccessDenied        = "access_denied"
	ErrCodeNoCode              = "no_code"
	ErrCodeInvalidState        = "invalid_state"
	ErrCodeTokenExchangeFailed = "token_exchange_failed"
	ErrCodeServerError         = "server_error"
)

var errorMessages = map[string]string{
	ErrCodeAccessDenied:        "You denied access to your GitHub account",
	ErrCodeNoCode:              "No authorization code received from GitHub",
	ErrCodeInvalidState:        "The login request expired or was tampered with, please try again",
	ErrCodeTokenExchangeFailed: "Failed to exchange code for access token",
	ErrCodeServerError:         "An error occurred on the server",
}

// ErrorMessage turns a callback error code into the text shown to the user.
func ErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Authentication failed: " + code
}

var (
	ErrNoAuthData  = errors.New("No authentication data received")
	ErrBadAuthData = errors.New("Failed to process authentication data")
)

// CallbackResult is what the frontend callback URL carried. Exactly one of
// Auth, HandoffID and ErrorCode is set.
type CallbackResult struct {
	Auth      *model.AuthSession
	HandoffID string
	ErrorCode string
}

// ParseCallback interprets <FRONTEND_URL>/auth/callback?... . The error
// parameter wins over data, then data over handoff.
func ParseCallback(rawURL string) (*CallbackResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("session: parsing callback URL: %w", err)
	}
	q := u.Query()

	if code := q.Get("error"); code != "" {
		return &CallbackResult{ErrorCode: code}, nil
	}

	if data := q.Get("data"); data != "" {
		auth, err := DecodeAuthData(data)
		if err != nil {
			return nil, err
		}
		return &CallbackResult{Auth: auth}, nil
	}

	if id := q.Get("handoff"); id != "" {
		return &CallbackResult{HandoffID: id}, nil
	}

	return nil, ErrNoAuthData
}

// DecodeAuthData reverses the backend's base64(JSON(AuthSession)) encoding.
func DecodeAuthData(data string) (*model.AuthSession, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAuthData, err)
	}
	var a model.AuthSession
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAuthData, err)
	}
	if a.Token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrBadAuthData)
	}
	return &a, nil
}
