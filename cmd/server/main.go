// Package main is the entry point for the Repository Memory System API server.
//
// The main package is kept minimal. Its job is to:
//  1. Read configuration (environment variables and .env files)
//  2. Create the logger
//  3. Hand both to internal/server and block until shutdown
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
package main

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"

	"github.com/sakif/repo-memory/internal/config"
	"github.com/sakif/repo-memory/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// config.Load merges defaults, .env/.env.local and the real environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// LOG_FORMAT=json for log shippers, text (the default) for terminals.
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// === 3. AUTH SECRETS ===
	// STATE_SECRET signs the OAuth state. Without one, a random secret is made
	// per process: logins still work, but a restart invalidates logins that
	// are mid-flight on GitHub's consent page.
	if cfg.Auth.StateSecret == "" {
		cfg.Auth.StateSecret, err = randomSecret()
		if err != nil {
			logger.Error("failed to generate state secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Warn("STATE_SECRET not set, using a random per-process secret")
	}

	if cfg.GitHub.ClientID == "" || cfg.GitHub.ClientSecret == "" {
		logger.Warn("GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET not set, GitHub login will fail")
	}

	if cfg.Auth.TransferMode == config.TransferQuery {
		logger.Warn("AUTH_TRANSFER_MODE=query puts the GitHub access token in the redirect URL; set AUTH_TRANSFER_MODE=handoff to keep it out of browser history")
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
