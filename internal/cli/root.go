// Package cli implements the repomem command line client.
//
// repomem plays the part of the web frontend: it keeps the same session
// (github_token, github_user, selected_repo, demo_mode) in a local SQLite file
// and drives the session state machine through the backend API.
//
// Configuration (flag, then environment, then default):
//
//	--api-url  REPOMEM_API_URL  http://localhost:5000
//	--state    REPOMEM_STATE    <user config dir>/repomem/state.db
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/repo-memory/internal/client"
	sqliteRepo "github.com/sakif/repo-memory/internal/repository/sqlite"
	"github.com/sakif/repo-memory/internal/session"
)

// app carries the resolved configuration into every command.
type app struct {
	v *viper.Viper
}

// NewRootCmd builds the repomem command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "repomem",
		Short: "Repository Memory System client",
		Long: `repomem - explore a repository's onboarding guide from the terminal.

Start with "repomem demo" for the sample project, or "repomem login" to
sign in with GitHub and pick one of your own repositories.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("api-url", client.DefaultBaseURL, "Backend base URL (or set REPOMEM_API_URL)")
	cmd.PersistentFlags().String("state", defaultStatePath(), "Session database path (or set REPOMEM_STATE)")

	a.v.SetEnvPrefix("REPOMEM")
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("api_url", cmd.PersistentFlags().Lookup("api-url"))
	_ = a.v.BindPFlag("state", cmd.PersistentFlags().Lookup("state"))

	cmd.AddCommand(
		a.newDemoCmd(),
		a.newLoginCmd(),
		a.newStatusCmd(),
		a.newVerifyCmd(),
		a.newLogoutCmd(),
		a.newReposCmd(),
		a.newSelectCmd(),
		a.newAnalyzeCmd(),
		a.newFileCmd(),
		a.newTourCmd(),
		a.newAskCmd(),
		a.newTasksCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".repomem", "state.db")
	}
	return filepath.Join(dir, "repomem", "state.db")
}

// withSession loads the stored session, runs fn, and saves the session back
// when fn succeeds and save is set.
func (a *app) withSession(ctx context.Context, save bool, fn func(s *session.Session) error) error {
	db, err := sqliteRepo.New(a.v.GetString("state"))
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer db.Close()

	store := session.NewKVStore(db.KV())
	s, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if err := fn(s); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := store.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// client returns an API client carrying the session's token, if any.
func (a *app) client(s *session.Session) *client.Client {
	var opts []client.Option
	if s != nil && s.Token != "" {
		opts = append(opts, client.WithToken(s.Token))
	}
	return client.New(a.v.GetString("api_url"), opts...)
}

// errNotLoggedIn is returned by commands that need demo or GitHub access.
var errNotLoggedIn = fmt.Errorf("not logged in: run \"repomem demo\" or \"repomem login\"")

func requireAuthenticated(s *session.Session) error {
	if s.State() == session.StateUnauthenticated {
		return errNotLoggedIn
	}
	return nil
}

func requireGitHub(s *session.Session) error {
	if !s.Authenticated() {
		return fmt.Errorf("this needs a GitHub login: run \"repomem login\"")
	}
	return nil
}
