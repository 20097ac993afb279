package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/mockdata"
)

func newTestAssistant(t *testing.T, latency bool) *AssistantService {
	t.Helper()
	f, err := mockdata.Load(time.Now())
	if err != nil {
		t.Fatalf("mockdata.Load: %v", err)
	}
	return NewAssistantService(f, latency, testLogger())
}

func TestGenerateTour_RoleEcho(t *testing.T) {
	svc := newTestAssistant(t, false)
	ctx := context.Background()

	tests := []struct {
		role, wantRole, wantFirstTitle string
	}{
		{"", "backend", "Backend Developer Welcome"},
		{"devops", "devops", "DevOps Engineer Welcome"},
		{"frontend", "frontend", "Frontend Developer Welcome"},
		{"qa", "qa", "Backend Developer Welcome"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			tour, err := svc.GenerateTour(ctx, tt.role)
			if err != nil {
				t.Fatalf("GenerateTour() error = %v", err)
			}
			if tour.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", tour.Role, tt.wantRole)
			}
			if len(tour.Steps) != 6 || tour.Steps[0].Title != tt.wantFirstTitle {
				t.Errorf("Steps[0].Title = %q, want %q", tour.Steps[0].Title, tt.wantFirstTitle)
			}
		})
	}
}

func TestAsk(t *testing.T) {
	svc := newTestAssistant(t, false)

	_, err := svc.Ask(context.Background(), "")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Question is required" {
		t.Fatalf("Ask(\"\") error = %v, want 'Question is required'", err)
	}

	ans, err := svc.Ask(context.Background(), "How do I get started?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if ans.Question != "How do I get started?" || ans.Answer == "" {
		t.Errorf("Ask() = %+v", ans)
	}
}

func TestLatency_Applied(t *testing.T) {
	svc := newTestAssistant(t, true)

	start := time.Now()
	if _, err := svc.Ask(context.Background(), "hello"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < LatencyAsk {
		t.Errorf("Ask() returned after %v, want at least %v", elapsed, LatencyAsk)
	}
}

func TestLatency_CancelledByContext(t *testing.T) {
	svc := newTestAssistant(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.StarterTasks(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("StarterTasks() error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) >= LatencyTasks {
		t.Error("cancellation should cut the simulated latency short")
	}
}

func TestAnalyzeAndFileDetails(t *testing.T) {
	svc := newTestAssistant(t, false)

	a, err := svc.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Summary.ProjectName != "ecommerce-api" {
		t.Errorf("ProjectName = %q", a.Summary.ProjectName)
	}

	d := svc.FileDetails("src/app.js")
	if d.Path != "src/app.js" || d.Language != "javascript" {
		t.Errorf("FileDetails() = %+v", d)
	}
}
