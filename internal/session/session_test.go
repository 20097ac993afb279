package session

import (
	"errors"
	"testing"

	"github.com/sakif/repo-memory/internal/model"
)

func testAuth() model.AuthSession {
	return model.AuthSession{
		Token: "gho_abc",
		User:  model.GitHubUser{ID: 1, Login: "octocat", Name: "The Octocat"},
	}
}

// =========================================================================
// TRANSITION TESTS
// =========================================================================

func TestNewSession_IsUnauthenticated(t *testing.T) {
	var s Session
	if s.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want %s", s.State(), StateUnauthenticated)
	}
}

func TestHappyPath(t *testing.T) {
	var s Session

	if err := s.EnterDemo(); err != nil {
		t.Fatalf("EnterDemo() error = %v", err)
	}
	if s.State() != StateDemo {
		t.Fatalf("State() = %s, want %s", s.State(), StateDemo)
	}

	if err := s.CompleteGitHubLogin(testAuth()); err != nil {
		t.Fatalf("CompleteGitHubLogin() error = %v", err)
	}
	if s.State() != StateGitHubNoRepo {
		t.Fatalf("State() = %s, want %s", s.State(), StateGitHubNoRepo)
	}
	if s.Demo {
		t.Error("logging in should leave demo mode")
	}

	if err := s.SelectRepo("octocat/hello"); err != nil {
		t.Fatalf("SelectRepo() error = %v", err)
	}
	if s.State() != StateGitHubWithRepo {
		t.Fatalf("State() = %s, want %s", s.State(), StateGitHubWithRepo)
	}

	if err := s.SelectRepo("octocat/other"); err != nil {
		t.Fatalf("re-selecting error = %v", err)
	}
	if s.SelectedRepo != "octocat/other" {
		t.Errorf("SelectedRepo = %q", s.SelectedRepo)
	}

	s.Logout()
	if s.State() != StateUnauthenticated || s.User != nil || s.Token != "" {
		t.Errorf("Logout() left %+v", s)
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Session)
		op    func(*Session) error
	}{
		{
			name:  "select repo while unauthenticated",
			setup: func(s *Session) {},
			op:    func(s *Session) error { return s.SelectRepo("a/b") },
		},
		{
			name:  "select repo in demo",
			setup: func(s *Session) { _ = s.EnterDemo() },
			op:    func(s *Session) error { return s.SelectRepo("a/b") },
		},
		{
			name:  "enter demo while logged in",
			setup: func(s *Session) { _ = s.CompleteGitHubLogin(testAuth()) },
			op:    func(s *Session) error { return s.EnterDemo() },
		},
		{
			name:  "log in twice",
			setup: func(s *Session) { _ = s.CompleteGitHubLogin(testAuth()) },
			op:    func(s *Session) error { return s.CompleteGitHubLogin(testAuth()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			tt.setup(&s)
			before := s

			err := tt.op(&s)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("error = %v, want ErrInvalidTransition", err)
			}
			if s.State() != before.State() || s.SelectedRepo != before.SelectedRepo {
				t.Errorf("session changed on a rejected transition: %+v -> %+v", before, s)
			}
		})
	}
}

func TestCompleteGitHubLogin_RejectsIncompleteSession(t *testing.T) {
	var s Session

	if err := s.CompleteGitHubLogin(model.AuthSession{User: model.GitHubUser{Login: "x"}}); err == nil {
		t.Error("expected an error for a missing token")
	}
	if err := s.CompleteGitHubLogin(model.AuthSession{Token: "t"}); err == nil {
		t.Error("expected an error for a missing login")
	}
	if s.State() != StateUnauthenticated {
		t.Errorf("State() = %s after rejected logins", s.State())
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in          string
		owner, repo string
		ok          bool
	}{
		{"octocat/hello", "octocat", "hello", true},
		{"octocat/hello.go", "octocat", "hello.go", true},
		{"octocat", "", "", false},
		{"/hello", "", "", false},
		{"octocat/", "", "", false},
		{"a/b/c", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := SplitFullName(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("SplitFullName(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("SplitFullName(%q) = (%q, %q), want (%q, %q)", tt.in, owner, repo, tt.owner, tt.repo)
			}
		})
	}
}
