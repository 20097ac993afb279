// Package config loads the server configuration from the environment.
//
// Sources, lowest to highest precedence:
//  1. Defaults set in setDefaults
//  2. .env and .env.local in the working directory (via godotenv; missing files are ignored)
//  3. Real environment variables
//
// Variable names are the plain upper-case names the deployment already uses
// (GITHUB_CLIENT_ID, FRONTEND_URL, PORT, NODE_ENV, ...), bound explicitly below.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Transfer modes for handing the AuthSession from the callback to the frontend.
const (
	TransferQuery   = "query"   // ?data=<base64 JSON> in the redirect URL
	TransferHandoff = "handoff" // ?handoff=<id>, redeemed once via POST /api/auth/handoff/{id}
)

// Config holds all server configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	GitHub GitHubConfig `mapstructure:"github"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
	Mock   MockConfig   `mapstructure:"mock"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"` // NODE_ENV: development, production, test
	FrontendURL string `mapstructure:"frontend_url"`
	BackendURL  string `mapstructure:"backend_url"`
	DBPath      string `mapstructure:"db_path"`
}

// GitHubConfig holds OAuth app credentials and API endpoints.
// The URLs are overridable so tests and GitHub Enterprise can point elsewhere.
type GitHubConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	APIURL       string        `mapstructure:"api_url"`
	OAuthURL     string        `mapstructure:"oauth_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AuthConfig controls OAuth state signing and the session transfer mode.
type AuthConfig struct {
	StateSecret   string        `mapstructure:"state_secret"`
	TransferMode  string        `mapstructure:"transfer_mode"`
	HandoffSecret string        `mapstructure:"handoff_secret"`
	HandoffTTL    time.Duration `mapstructure:"handoff_ttl"`
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// MockConfig controls the artificial latency of the demo endpoints.
type MockConfig struct {
	Latency bool `mapstructure:"latency"`
}

// IsProduction reports whether NODE_ENV is "production".
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// CallbackURL is the OAuth redirect_uri registered with GitHub.
func (c ServerConfig) CallbackURL() string {
	return strings.TrimRight(c.BackendURL, "/") + "/api/auth/github/callback"
}

// envBindings maps config keys to the environment variable that sets them.
var envBindings = map[string]string{
	"server.port":          "PORT",
	"server.environment":   "NODE_ENV",
	"server.frontend_url":  "FRONTEND_URL",
	"server.backend_url":   "BACKEND_URL",
	"server.db_path":       "DB_PATH",
	"github.client_id":     "GITHUB_CLIENT_ID",
	"github.client_secret": "GITHUB_CLIENT_SECRET",
	"github.api_url":       "GITHUB_API_URL",
	"github.oauth_url":     "GITHUB_OAUTH_URL",
	"github.timeout":       "GITHUB_TIMEOUT",
	"auth.state_secret":    "STATE_SECRET",
	"auth.transfer_mode":   "AUTH_TRANSFER_MODE",
	"auth.handoff_secret":  "HANDOFF_SECRET",
	"auth.handoff_ttl":     "HANDOFF_TTL",
	"log.level":            "LOG_LEVEL",
	"log.format":           "LOG_FORMAT",
	"mock.latency":         "MOCK_LATENCY",
}

// Load reads .env files and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.backend_url", "http://localhost:5000")
	v.SetDefault("server.db_path", "data/repo-memory.db")

	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("github.oauth_url", "https://github.com")
	v.SetDefault("github.timeout", "15s")

	v.SetDefault("auth.transfer_mode", TransferQuery)
	v.SetDefault("auth.handoff_ttl", "2m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("mock.latency", true)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Server.Port)
	}

	switch c.Auth.TransferMode {
	case TransferQuery:
	case TransferHandoff:
		if len(c.Auth.HandoffSecret) < 16 {
			return fmt.Errorf("config: AUTH_TRANSFER_MODE=handoff requires HANDOFF_SECRET of at least 16 characters")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_TRANSFER_MODE %q (want %q or %q)",
			c.Auth.TransferMode, TransferQuery, TransferHandoff)
	}

	if c.Auth.StateSecret != "" && len(c.Auth.StateSecret) < 16 {
		return fmt.Errorf("config: STATE_SECRET must be at least 16 characters")
	}

	return nil
}
