package model

import "time"

// RepoSummary is one entry of GET /api/auth/user/repos, reshaped from GitHub's
// repository list. Description and Language are nil when GitHub reports null.
type RepoSummary struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	Private         bool      `json:"private"`
}

// RepoStats approximates the demo analysis schema from GitHub's languages and
// contents endpoints. The numbers are byte-count heuristics, not a real analysis.
type RepoStats struct {
	Summary  StatsSummary  `json:"summary"`
	Metadata StatsMetadata `json:"metadata"`
	KeyFiles StatsKeyFiles `json:"keyFiles"`
}

type StatsSummary struct {
	ProjectName string           `json:"projectName"`
	TotalFiles  int              `json:"totalFiles"`
	TotalLines  int64            `json:"totalLines"`
	Languages   map[string]int64 `json:"languages"`
}

type StatsMetadata struct {
	Functions []FunctionRef `json:"functions"`
	Classes   []string      `json:"classes"`
	Imports   []ImportRef   `json:"imports"`
}

type StatsKeyFiles struct {
	EntryPoints []FileRef `json:"entryPoints"`
}

// FileRef points at a file inside the analysed repository.
type FileRef struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Language string `json:"language,omitempty" yaml:"language"`
}

// FunctionRef names a function and the file that declares it.
type FunctionRef struct {
	Name string `json:"name" yaml:"name"`
	File string `json:"file" yaml:"file"`
}

// ImportRef is a module import. Specifiers is empty for GitHub-derived stats,
// where Source holds a language name instead of a module.
type ImportRef struct {
	Source     string   `json:"source" yaml:"source"`
	Specifiers []string `json:"specifiers,omitempty" yaml:"specifiers"`
}
