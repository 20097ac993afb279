// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It decides:
//   - Which URL patterns map to which handler functions
//   - What middleware runs on which routes
//   - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go loads config.Config → server.New(cfg, logger)
//	server.New creates:
//	  mockdata.Fixtures           → AssistantService → RepoHandler, AIHandler
//	  github.Client               → RepoService      → GitHubHandler
//	  auth.GitHubProvider, auth.StateSigner,
//	  sqlite.DB + auth.Sealer (handoff mode only)    → AuthService → AuthHandler
//
// All dependencies are wired here (the "composition root") rather than
// scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/repo-memory/internal/auth"
	"github.com/sakif/repo-memory/internal/config"
	"github.com/sakif/repo-memory/internal/github"
	"github.com/sakif/repo-memory/internal/handler"
	"github.com/sakif/repo-memory/internal/middleware"
	"github.com/sakif/repo-memory/internal/mockdata"
	"github.com/sakif/repo-memory/internal/repository"
	sqliteRepo "github.com/sakif/repo-memory/internal/repository/sqlite"
	"github.com/sakif/repo-memory/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// In handoff mode the Server owns a database connection (db). It is closed by
// Start during graceful shutdown, or by Close when the server never started.
// In query mode db is nil.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	registry *prometheus.Registry

	authHandler   *handler.AuthHandler
	githubHandler *handler.GitHubHandler
	repoHandler   *handler.RepoHandler
	aiHandler     *handler.AIHandler
}

// New creates a Server from the loaded configuration.
//
// WIRING:
//  1. Parse the embedded demo fixtures
//  2. Create the GitHub REST client and the OAuth provider
//  3. Create the state signer (and the handoff store + sealer if enabled)
//  4. Create services, then handlers
//  5. Register middleware and routes
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	// === FIXTURES ===
	fixtures, err := mockdata.Load(time.Now())
	if err != nil {
		return nil, fmt.Errorf("loading demo fixtures: %w", err)
	}

	// === GITHUB ===
	gh := github.NewClient(
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithTimeout(cfg.GitHub.Timeout),
	)
	provider := auth.NewGitHubProvider(
		cfg.GitHub.ClientID,
		cfg.GitHub.ClientSecret,
		cfg.Server.CallbackURL(),
		cfg.GitHub.OAuthURL,
		&http.Client{Timeout: cfg.GitHub.Timeout},
	)

	states, err := auth.NewStateSigner(cfg.Auth.StateSecret)
	if err != nil {
		return nil, fmt.Errorf("creating state signer: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	// === HANDOFF STORAGE (optional) ===
	useHandoff := cfg.Auth.TransferMode == config.TransferHandoff
	var sealer *auth.Sealer
	if useHandoff {
		sealer, err = auth.NewSealer(cfg.Auth.HandoffSecret)
		if err != nil {
			return nil, fmt.Errorf("creating handoff sealer: %w", err)
		}
		s.db, err = sqliteRepo.New(cfg.Server.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
	}

	// === SERVICES & HANDLERS ===
	// A nil *sqliteRepo.DB must not become a non-nil interface value.
	var handoffs repository.HandoffRepository
	if s.db != nil {
		handoffs = s.db
	}
	authService, err := service.NewAuthService(provider, gh, states, handoffs, sealer,
		service.AuthOptions{
			FrontendURL: cfg.Server.FrontendURL,
			UseHandoff:  useHandoff,
			HandoffTTL:  cfg.Auth.HandoffTTL,
		},
		logger,
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating auth service: %w", err)
	}
	repoService := service.NewRepoService(gh, logger)
	assistant := service.NewAssistantService(fixtures, cfg.Mock.Latency, logger)

	s.authHandler = handler.NewAuthHandler(authService, logger)
	s.githubHandler = handler.NewGitHubHandler(repoService, logger)
	s.repoHandler = handler.NewRepoHandler(assistant, logger)
	s.aiHandler = handler.NewAIHandler(assistant, logger)

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET  /health                                  → liveness probe
// GET  /metrics                                 → Prometheus metrics
// GET  /api/auth/github                         → redirect to GitHub
// GET  /api/auth/github/callback                → redirect to the frontend
// POST /api/auth/handoff/{id}                   → redeem a handoff (handoff mode)
// GET  /api/auth/user/repos                     → Bearer; list repositories
// GET  /api/auth/verify                         → Bearer; verify token
// GET  /api/auth/repo/{repoFullName}/stats      → Bearer; repository statistics
// GET  /api/repo/analyze                        → demo analysis
// GET  /api/repo/file/*                         → demo file details
// POST /api/ai/generate-tour                    → demo onboarding tour
// POST /api/ai/ask                              → demo chat answer
// GET  /api/ai/starter-tasks                    → demo starter tasks
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID (X-Request-ID, read by Logger and Recoverer)
//  2. RealIP
//  3. Logger
//  4. Recoverer (inside Logger so recovered panics are logged as 500s)
//  5. Metrics
//  6. CORS (answers preflight requests before routing)
func (s *Server) setupRoutes() {
	metrics := middleware.NewMetrics(s.registry)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recoverer(s.logger, !s.config.Server.IsProduction()))
	s.router.Use(metrics.Handler)
	s.router.Use(middleware.CORS(s.config.Server.FrontendURL))

	s.router.NotFound(handler.HandleNotFound)
	s.router.MethodNotAllowed(handler.HandleMethodNotAllowed)

	s.router.Get("/health", handler.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/github", s.authHandler.HandleGitHubLogin)
			r.Get("/github/callback", s.authHandler.HandleGitHubCallback)
			r.Post("/handoff/{id}", s.authHandler.HandleRedeemHandoff)

			r.With(auth.RequireBearer("Unauthorized")).Group(func(r chi.Router) {
				r.Get("/user/repos", s.githubHandler.HandleListRepos)
				r.Get("/repo/{repoFullName}/stats", s.githubHandler.HandleRepoStats)
			})
			r.With(auth.RequireBearer("No token provided")).Get("/verify", s.githubHandler.HandleVerify)
		})

		r.Route("/repo", func(r chi.Router) {
			r.Get("/analyze", s.repoHandler.HandleAnalyze)
			r.Get("/file/*", s.repoHandler.HandleFile)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-tour", s.aiHandler.HandleGenerateTour)
			r.Post("/ask", s.aiHandler.HandleAsk)
			r.Get("/starter-tasks", s.aiHandler.HandleStarterTasks)
		})
	})
}

// Handler returns the root http.Handler. Used by tests with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection, if any.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (handoff mode)
//
// WriteTimeout leaves room for GitHub calls bounded by GITHUB_TIMEOUT.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.GitHub.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("environment", s.config.Server.Environment),
			slog.String("frontendURL", s.config.Server.FrontendURL),
			slog.String("transferMode", s.config.Auth.TransferMode),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
