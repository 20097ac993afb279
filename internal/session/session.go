// Package session models what a client knows about its own login: whether it
// is exploring the demo, signed in with GitHub, and which repository it picked.
//
// STATES AND TRANSITIONS:
//
//	unauthenticated ──EnterDemo──────────────► demo-authenticated
//	unauthenticated ──CompleteGitHubLogin────► github-authenticated-no-repo
//	demo-authenticated ──CompleteGitHubLogin─► github-authenticated-no-repo
//	github-* ──SelectRepo────────────────────► github-authenticated-with-repo
//	any ──Logout─────────────────────────────► unauthenticated
//
// Anything else returns ErrInvalidTransition and leaves the Session unchanged.
// A Session is plain data; a Store loads and saves it.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/repo-memory/internal/model"
)

// State is the derived login state of a Session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateDemo            State = "demo-authenticated"
	StateGitHubNoRepo    State = "github-authenticated-no-repo"
	StateGitHubWithRepo  State = "github-authenticated-with-repo"
)

// ErrInvalidTransition is returned when an operation is not allowed from the
// current state.
var ErrInvalidTransition = errors.New("session: invalid transition")

// Session is the client-side auth state.
type Session struct {
	Demo         bool
	Token        string
	User         *model.GitHubUser
	SelectedRepo string // owner/repo
}

// State derives the current state from the fields.
func (s *Session) State() State {
	switch {
	case s.Token != "" && s.SelectedRepo != "":
		return StateGitHubWithRepo
	case s.Token != "":
		return StateGitHubNoRepo
	case s.Demo:
		return StateDemo
	default:
		return StateUnauthenticated
	}
}

// Authenticated reports whether the session holds a GitHub token.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// EnterDemo switches an anonymous session to demo mode. Entering demo mode
// again is a no-op.
func (s *Session) EnterDemo() error {
	switch s.State() {
	case StateUnauthenticated, StateDemo:
		s.Demo = true
		return nil
	default:
		return transitionError("enter demo", s.State())
	}
}

// CompleteGitHubLogin stores the AuthSession produced by the OAuth callback.
// It leaves demo mode if the session was in it.
func (s *Session) CompleteGitHubLogin(a model.AuthSession) error {
	switch s.State() {
	case StateUnauthenticated, StateDemo:
	default:
		return transitionError("complete GitHub login", s.State())
	}

	if a.Token == "" {
		return errors.New("session: auth session has no token")
	}
	if a.User.Login == "" {
		return errors.New("session: auth session has no user login")
	}

	user := a.User
	*s = Session{Token: a.Token, User: &user}
	return nil
}

// SelectRepo records the repository to analyse. Selecting another repository
// replaces the previous choice.
func (s *Session) SelectRepo(fullName string) error {
	if !s.Authenticated() {
		return transitionError("select repository", s.State())
	}
	if _, _, err := SplitFullName(fullName); err != nil {
		return err
	}
	s.SelectedRepo = fullName
	return nil
}

// Logout clears everything.
func (s *Session) Logout() {
	*s = Session{}
}

// SplitFullName splits "owner/repo". Both parts must be non-empty and the
// repo part may not contain another slash.
func SplitFullName(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("session: repository must be owner/repo, got %q", fullName)
	}
	return owner, repo, nil
}

func transitionError(op string, from State) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, from)
}
