package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the token.
type contextKey string

const tokenKey contextKey = "githubToken"

// RequireBearer is a middleware that enforces an "Authorization: Bearer <token>"
// header on protected routes.
//
// The token is a GitHub access token and is NOT validated here; GitHub is the
// only authority on it. The middleware only extracts it and stores it in the
// request context. If the header is missing or malformed it writes
//
//	401 {"success":false,"message":<message>}
//
// and stops the chain. Each route group passes its own message because the
// frontend shows them verbatim ("Unauthorized", "No token provided").
func RequireBearer(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": message,
				})
				return
			}

			ctx := WithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithToken returns a copy of ctx carrying the GitHub access token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext retrieves the access token stored by RequireBearer.
//
// Returns ("", false) when the request did not pass through RequireBearer.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// BearerToken extracts the token from the Authorization header.
// The scheme is matched case-insensitively; an empty token counts as missing.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
