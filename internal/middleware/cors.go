package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the single-page frontend at frontendURL to call the API with
// credentials and a Bearer token.
func CORS(frontendURL string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
