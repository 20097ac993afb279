package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/repo-memory/internal/client"
	"github.com/sakif/repo-memory/internal/session"
)

func (a *app) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Explore the sample project without a GitHub account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session.Session) error {
				if err := s.EnterDemo(); err != nil {
					return fmt.Errorf("%w (run \"repomem logout\" first)", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Demo mode enabled. Try \"repomem analyze\" or \"repomem tour\".")
				return nil
			})
		},
	}
}

func (a *app) newLoginCmd() *cobra.Command {
	var callbackURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with GitHub",
		Long: `Sign in with GitHub.

Without flags, prints the URL to open in a browser. After approving on GitHub
the browser lands on <frontend>/auth/callback?...; pass that whole URL back:

  repomem login --callback-url '<url>'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if callbackURL == "" {
				fmt.Fprintln(out, "Open this URL in your browser to sign in with GitHub:")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "  "+a.client(nil).LoginURL())
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Then run: repomem login --callback-url '<the URL you were redirected to>'")
				return nil
			}

			res, err := session.ParseCallback(callbackURL)
			if err != nil {
				return err
			}
			if res.ErrorCode != "" {
				return errors.New(session.ErrorMessage(res.ErrorCode))
			}

			auth := res.Auth
			if res.HandoffID != "" {
				auth, err = a.client(nil).RedeemHandoff(cmd.Context(), res.HandoffID)
				var apiErr *client.Error
				if errors.As(err, &apiErr) && apiErr.IsNotFound() {
					return errors.New("this login link was already used or is unknown, run \"repomem login\" again")
				}
				if err != nil {
					return fmt.Errorf("redeeming login: %w", err)
				}
			}

			return a.withSession(cmd.Context(), true, func(s *session.Session) error {
				if err := s.CompleteGitHubLogin(*auth); err != nil {
					return fmt.Errorf("%w (run \"repomem logout\" first)", err)
				}
				fmt.Fprintf(out, "Logged in as %s (@%s).\n", auth.User.Name, auth.User.Login)
				fmt.Fprintln(out, "Pick a repository with \"repomem repos\" and \"repomem select <owner/repo>\".")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "The frontend callback URL GitHub redirected to")
	return cmd
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "State: %s\n", s.State())
				if s.User != nil {
					fmt.Fprintf(out, "User:  %s (@%s)\n", s.User.Name, s.User.Login)
				}
				if s.SelectedRepo != "" {
					fmt.Fprintf(out, "Repo:  %s\n", s.SelectedRepo)
				}
				return nil
			})
		},
	}
}

// newVerifyCmd checks the stored token. A token GitHub no longer accepts ends
// the session, as the web frontend does on a failed verify.
func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the stored GitHub token still works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var expired bool
			err := a.withSession(cmd.Context(), true, func(s *session.Session) error {
				if err := requireGitHub(s); err != nil {
					return err
				}

				user, err := a.client(s).Verify(cmd.Context())
				var apiErr *client.Error
				if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
					s.Logout()
					expired = true
					return nil
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Token OK for %s (@%s).\n", user.Name, user.Login)
				return nil
			})
			if err == nil && expired {
				return errors.New("session expired, please run \"repomem login\" again")
			}
			return err
		},
	}
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the token, user, selected repository and demo mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session.Session) error {
				s.Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}
