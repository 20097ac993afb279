package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/repo-memory/internal/session"
)

func (a *app) newReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "repos",
		Aliases: []string{"ls"},
		Short:   "List your most recently updated GitHub repositories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				if err := requireGitHub(s); err != nil {
					return err
				}

				repos, err := a.client(s).ListRepos(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(repos) == 0 {
					fmt.Fprintln(out, "No repositories found.")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "REPOSITORY\tLANGUAGE\tSTARS\tUPDATED\tVISIBILITY")
				for _, r := range repos {
					lang := "-"
					if r.Language != nil {
						lang = *r.Language
					}
					visibility := "public"
					if r.Private {
						visibility = "private"
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
						r.FullName, lang, r.StargazersCount, r.UpdatedAt.Format("2006-01-02"), visibility)
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <owner/repo>",
		Short: "Choose the repository to analyze",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), true, func(s *session.Session) error {
				if err := s.SelectRepo(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected %s.\n", s.SelectedRepo)
				return nil
			})
		},
	}
}

// newAnalyzeCmd shows the GitHub-derived stats of the selected repository, or
// the sample analysis in demo mode.
func (a *app) newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the selected repository (or the demo project)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), false, func(s *session.Session) error {
				out := cmd.OutOrStdout()
				c := a.client(s)

				switch s.State() {
				case session.StateGitHubWithRepo:
					stats, err := c.RepoStats(cmd.Context(), s.SelectedRepo)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Project:     %s\n", stats.Summary.ProjectName)
					fmt.Fprintf(out, "Root files:  %d\n", stats.Summary.TotalFiles)
					fmt.Fprintf(out, "Est. lines:  %d\n", stats.Summary.TotalLines)
					fmt.Fprintf(out, "Languages:   %s\n", formatLanguages(stats.Summary.Languages))
					for _, f := range stats.KeyFiles.EntryPoints {
						fmt.Fprintf(out, "Entry point: %s\n", f.Path)
					}
					return nil

				case session.StateGitHubNoRepo:
					return fmt.Errorf("no repository selected: run \"repomem select <owner/repo>\"")

				case session.StateDemo:
					data, err := c.Analyze(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Project:     %s\n", data.Summary.ProjectName)
					fmt.Fprintf(out, "Files:       %d\n", data.Summary.TotalFiles)
					fmt.Fprintf(out, "Lines:       %d\n", data.Summary.TotalLines)
					fmt.Fprintf(out, "Functions:   %d\n", data.Summary.FunctionsCount)
					for _, f := range data.KeyFiles.EntryPoints {
						fmt.Fprintf(out, "Entry point: %s\n", f.Path)
					}
					return nil
				}

				return errNotLoggedIn
			})
		},
	}
}

// formatLanguages renders {"Go":12,"Shell":0} as "Go 12KB, Shell 0KB", largest first.
func formatLanguages(langs map[string]int64) string {
	if len(langs) == 0 {
		return "-"
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %dKB", name, langs[name])
	}
	return strings.Join(parts, ", ")
}
