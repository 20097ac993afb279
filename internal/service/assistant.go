package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/mockdata"
	"github.com/sakif/repo-memory/internal/model"
)

// Artificial latencies that make the demo feel like real analysis.
const (
	LatencyAnalyze = 800 * time.Millisecond
	LatencyTour    = 800 * time.Millisecond
	LatencyAsk     = 600 * time.Millisecond
	LatencyTasks   = 700 * time.Millisecond
)

// AssistantService serves the demo analysis, tours, chat answers and starter
// tasks from the read-only fixtures.
type AssistantService struct {
	fixtures *mockdata.Fixtures
	latency  bool
	logger   *slog.Logger
}

// NewAssistantService creates an AssistantService. With latency false every
// call returns immediately (tests, MOCK_LATENCY=false).
func NewAssistantService(fixtures *mockdata.Fixtures, latency bool, logger *slog.Logger) *AssistantService {
	return &AssistantService{fixtures: fixtures, latency: latency, logger: logger}
}

// Analyze returns the sample repository analysis.
func (s *AssistantService) Analyze(ctx context.Context) (model.AnalysisData, error) {
	if err := s.wait(ctx, LatencyAnalyze); err != nil {
		return model.AnalysisData{}, err
	}
	return s.fixtures.Analysis(), nil
}

// FileDetails returns placeholder details for any path. No latency.
func (s *AssistantService) FileDetails(path string) model.FileDetails {
	return s.fixtures.FileDetails(path)
}

// Tour is a generated onboarding tour and the role it was requested for.
type Tour struct {
	Steps []model.TourStep
	Role  string
}

// GenerateTour picks the tour for role. An empty role yields the default
// (backend) tour. Role echoes the request as given, or "backend" when empty,
// even if an unknown role fell back to the backend tour.
func (s *AssistantService) GenerateTour(ctx context.Context, role string) (*Tour, error) {
	if err := s.wait(ctx, LatencyTour); err != nil {
		return nil, err
	}

	if role == "" {
		return &Tour{Steps: s.fixtures.DefaultTour(), Role: mockdata.DefaultRole}, nil
	}
	return &Tour{Steps: s.fixtures.GetTourByRole(role), Role: role}, nil
}

// Ask answers a question from the canned answers.
func (s *AssistantService) Ask(ctx context.Context, question string) (*model.ChatAnswer, error) {
	if question == "" {
		return nil, apperror.ValidationFailed("question", "Question is required")
	}
	if err := s.wait(ctx, LatencyAsk); err != nil {
		return nil, err
	}

	return &model.ChatAnswer{
		Question: question,
		Answer:   s.fixtures.GetRandomResponse(question),
	}, nil
}

// StarterTasks returns the suggested first tasks.
func (s *AssistantService) StarterTasks(ctx context.Context) ([]model.StarterTask, error) {
	if err := s.wait(ctx, LatencyTasks); err != nil {
		return nil, err
	}
	return s.fixtures.StarterTasks(), nil
}

// wait sleeps for d unless latency is off, returning early with the context
// error if the client goes away.
func (s *AssistantService) wait(ctx context.Context, d time.Duration) error {
	if !s.latency {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		s.logger.Debug("request cancelled during simulated latency", slog.Any("error", ctx.Err()))
		return ctx.Err()
	}
}
