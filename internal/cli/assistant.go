package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/repo-memory/internal/session"
)

func (a *app) newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Show details for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				if err := requireAuthenticated(s); err != nil {
					return err
				}
				d, err := a.client(s).File(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", d.Path, d.Language)
				fmt.Fprintf(out, "Lines: %d total, %d code, %d comments\n", d.Lines.Total, d.Lines.Code, d.Lines.Comments)
				if d.Content != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, d.Content)
				}
				return nil
			})
		},
	}
}

func (a *app) newTourCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Walk through the onboarding tour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				if err := requireAuthenticated(s); err != nil {
					return err
				}
				tour, err := a.client(s).GenerateTour(cmd.Context(), role)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Onboarding tour (%s)\n", tour.Role)
				for _, step := range tour.Steps {
					fmt.Fprintf(out, "\n%d. %s\n", step.Step, step.Title)
					fmt.Fprintf(out, "   %s\n", step.Description)
					if len(step.Files) > 0 {
						fmt.Fprintf(out, "   Files: %s\n", strings.Join(step.Files, ", "))
					}
					if step.CodeSnippet != "" {
						fmt.Fprintf(out, "   > %s\n", step.CodeSnippet)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "frontend, backend or devops (default backend)")
	return cmd
}

func (a *app) newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the codebase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				if err := requireAuthenticated(s); err != nil {
					return err
				}
				answer, err := a.client(s).Ask(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), answer.Answer)
				return nil
			})
		},
	}
}

func (a *app) newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Suggest good first tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				if err := requireAuthenticated(s); err != nil {
					return err
				}
				tasks, err := a.client(s).StarterTasks(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for i, t := range tasks {
					fmt.Fprintf(out, "%d. [%s] %s\n", i+1, t.Difficulty, t.Title)
					fmt.Fprintf(out, "   %s\n", t.Description)
				}
				return nil
			})
		},
	}
}
