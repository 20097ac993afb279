package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/github"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/session"
	"golang.org/x/sync/errgroup"
)

// Client-facing messages. GitHub's own error text is logged, never returned.
const (
	msgReposFailed  = "Failed to fetch repositories"
	msgVerifyFailed = "Invalid or expired token"
	msgStatsFailed  = "Failed to fetch repository statistics"
)

// entryPointNames are matched against lower-cased root file names.
var entryPointNames = map[string]bool{
	"index.js":  true,
	"main.js":   true,
	"app.js":    true,
	"server.js": true,
	"index.ts":  true,
	"main.ts":   true,
	"app.ts":    true,
}

// RepoService proxies the authenticated GitHub endpoints.
// It keeps nothing between calls; the token comes with every request.
type RepoService struct {
	gh     GitHubAPI
	logger *slog.Logger
}

func NewRepoService(gh GitHubAPI, logger *slog.Logger) *RepoService {
	return &RepoService{gh: gh, logger: logger}
}

// ListRepos returns the caller's 50 most recently updated repositories.
func (s *RepoService) ListRepos(ctx context.Context, token string) ([]model.RepoSummary, error) {
	repos, err := s.gh.ListRepos(ctx, token)
	if err != nil {
		s.logger.Error("failed to fetch repos", slog.Any("error", err))
		return nil, apperror.Upstream(msgReposFailed, err)
	}

	out := make([]model.RepoSummary, 0, len(repos))
	for _, r := range repos {
		out = append(out, model.RepoSummary{
			ID:              r.ID,
			Name:            r.Name,
			FullName:        r.FullName,
			Description:     r.Description,
			HTMLURL:         r.HTMLURL,
			Language:        r.Language,
			StargazersCount: r.StargazersCount,
			UpdatedAt:       r.UpdatedAt,
			Private:         r.Private,
		})
	}
	return out, nil
}

// Verify checks the token against GitHub. Any failure, including GitHub being
// unreachable, reads as an invalid token.
func (s *RepoService) Verify(ctx context.Context, token string) (*model.VerifiedUser, error) {
	u, err := s.gh.GetUser(ctx, token)
	if err != nil {
		var ghErr *github.Error
		if errors.As(err, &ghErr) && ghErr.IsUnauthorized() {
			s.logger.Debug("token rejected by GitHub", slog.Any("error", err))
		} else {
			s.logger.Warn("could not verify token", slog.Any("error", err))
		}
		appErr := apperror.Unauthorized(msgVerifyFailed)
		appErr.Cause = err
		return nil, appErr
	}

	return &model.VerifiedUser{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.DisplayName(),
		AvatarURL: u.AvatarURL,
	}, nil
}

// ParseRepoFullName decodes a URL-encoded "owner%2Frepo" path segment.
// Already-decoded input ("owner/repo") is accepted too.
func ParseRepoFullName(raw string) (owner, repo string, err error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", "", apperror.ValidationFailed("repoFullName", "Invalid repository name encoding")
	}
	owner, repo, err = session.SplitFullName(decoded)
	if err != nil {
		return "", "", apperror.ValidationFailed("repoFullName", "Repository must be in owner/repo form")
	}
	return owner, repo, nil
}

// Stats synthesizes RepoStats from three GitHub calls.
//
// CONCURRENCY:
// The repository, languages and contents requests are independent, so they run
// in parallel under an errgroup. The join is all-or-nothing: the first failure
// cancels the shared context, the other requests abort, and Stats fails as a
// whole. No partial stats are ever returned.
func (s *RepoService) Stats(ctx context.Context, token, repoFullName string) (*model.RepoStats, error) {
	owner, repo, err := ParseRepoFullName(repoFullName)
	if err != nil {
		return nil, err
	}

	var (
		info     *github.Repository
		langs    map[string]int64
		contents []github.ContentEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.gh.GetRepo(gctx, token, owner, repo)
		return err
	})
	g.Go(func() error {
		var err error
		langs, err = s.gh.GetLanguages(gctx, token, owner, repo)
		return err
	})
	g.Go(func() error {
		var err error
		contents, err = s.gh.GetContents(gctx, token, owner, repo)
		return err
	})

	if err := g.Wait(); err != nil {
		level := slog.LevelError
		var ghErr *github.Error
		if errors.As(err, &ghErr) && (ghErr.IsNotFound() || ghErr.IsUnauthorized()) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "failed to fetch repo stats",
			slog.String("repo", owner+"/"+repo),
			slog.Any("error", err),
		)
		return nil, apperror.Upstream(msgStatsFailed, fmt.Errorf("%s/%s: %w", owner, repo, err))
	}

	return BuildStats(info.Name, langs, contents), nil
}

// BuildStats applies the size heuristics:
//   - languages[lang] = round(bytes / 1000), in KB
//   - totalLines      = round(totalBytes / 50), assuming 50 bytes per line
//   - totalFiles      = root entries of type "file"
//   - imports         = one {source: language} per language, sorted by name
//   - entryPoints     = root files named like index.js, main.ts, ...; or a
//     single "Repository root" placeholder
func BuildStats(projectName string, langs map[string]int64, contents []github.ContentEntry) *model.RepoStats {
	languages := make(map[string]int64, len(langs))
	names := make([]string, 0, len(langs))
	var totalBytes int64
	for lang, bytes := range langs {
		languages[lang] = roundDiv(bytes, 1000)
		totalBytes += bytes
		names = append(names, lang)
	}
	sort.Strings(names)

	imports := make([]model.ImportRef, 0, len(names))
	for _, lang := range names {
		imports = append(imports, model.ImportRef{Source: lang})
	}

	totalFiles := 0
	entryPoints := []model.FileRef{}
	for _, item := range contents {
		if item.Type != github.ContentFile {
			continue
		}
		totalFiles++
		if entryPointNames[strings.ToLower(item.Name)] {
			entryPoints = append(entryPoints, model.FileRef{Name: item.Name, Path: item.Path})
		}
	}
	if len(entryPoints) == 0 {
		entryPoints = []model.FileRef{{Name: "Repository root", Path: "/"}}
	}

	return &model.RepoStats{
		Summary: model.StatsSummary{
			ProjectName: projectName,
			TotalFiles:  totalFiles,
			TotalLines:  roundDiv(totalBytes, 50),
			Languages:   languages,
		},
		Metadata: model.StatsMetadata{
			Functions: []model.FunctionRef{},
			Classes:   []string{},
			Imports:   imports,
		},
		KeyFiles: model.StatsKeyFiles{
			EntryPoints: entryPoints,
		},
	}
}

// roundDiv divides and rounds half up.
func roundDiv(n, d int64) int64 {
	return int64(math.Floor(float64(n)/float64(d) + 0.5))
}
