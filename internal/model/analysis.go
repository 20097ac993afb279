package model

import "time"

// AnalysisData is the pre-computed demo analysis of the sample e-commerce API.
// It is loaded once from fixtures and never mutated afterwards.
type AnalysisData struct {
	Success   bool             `json:"success" yaml:"success"`
	Summary   AnalysisSummary  `json:"summary" yaml:"summary"`
	Structure TreeNode         `json:"structure" yaml:"structure"`
	Metadata  AnalysisMetadata `json:"metadata" yaml:"metadata"`
	KeyFiles  KeyFiles         `json:"keyFiles" yaml:"keyFiles"`
}

type AnalysisSummary struct {
	ProjectName    string         `json:"projectName" yaml:"projectName"`
	ProjectPath    string         `json:"projectPath" yaml:"projectPath"`
	TotalFiles     int            `json:"totalFiles" yaml:"totalFiles"`
	TotalLines     int            `json:"totalLines" yaml:"totalLines"`
	Languages      map[string]int `json:"languages" yaml:"languages"`
	FileTypes      map[string]int `json:"fileTypes" yaml:"fileTypes"`
	FunctionsCount int            `json:"functionsCount" yaml:"functionsCount"`
	ClassesCount   int            `json:"classesCount" yaml:"classesCount"`
	AnalyzedAt     time.Time      `json:"analyzedAt" yaml:"-"`
	AnalysisTime   string         `json:"analysisTime" yaml:"analysisTime"`
}

// TreeNode is one entry of the repository structure tree. Children is only
// populated for directories that were expanded by the analysis.
type TreeNode struct {
	Name      string     `json:"name" yaml:"name"`
	Type      string     `json:"type" yaml:"type"`
	Extension string     `json:"extension,omitempty" yaml:"extension"`
	Children  []TreeNode `json:"children,omitempty" yaml:"children"`
}

type AnalysisMetadata struct {
	Functions  []FunctionRef  `json:"functions" yaml:"functions"`
	Classes    []string       `json:"classes" yaml:"classes"`
	Imports    []ImportRef    `json:"imports" yaml:"imports"`
	Languages  map[string]int `json:"languages" yaml:"languages"`
	FileTypes  map[string]int `json:"fileTypes" yaml:"fileTypes"`
	TotalLines int            `json:"totalLines" yaml:"totalLines"`
}

type KeyFiles struct {
	EntryPoints []FileRef `json:"entryPoints" yaml:"entryPoints"`
	Configs     []FileRef `json:"configs" yaml:"configs"`
	Readme      *FileRef  `json:"readme,omitempty" yaml:"readme"`
	PackageJSON *FileRef  `json:"packageJson,omitempty" yaml:"packageJson"`
}

// TourStep is one step of a role-based onboarding tour.
type TourStep struct {
	Step        int      `json:"step" yaml:"step"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Files       []string `json:"files" yaml:"files"`
	Highlight   string   `json:"highlight" yaml:"highlight"`
	CodeSnippet string   `json:"codeSnippet,omitempty" yaml:"codeSnippet"`
}

// ChatAnswer is the payload of POST /api/ai/ask.
type ChatAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StarterTask is a suggested first contribution.
type StarterTask struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Files       []string `json:"files" yaml:"files"`
}

// FileDetails is the mock payload of GET /api/repo/file/*.
type FileDetails struct {
	Path     string     `json:"path"`
	Content  string     `json:"content"`
	Language string     `json:"language"`
	Parsed   ParsedFile `json:"parsed"`
	Lines    LineCounts `json:"lines"`
}

type ParsedFile struct {
	Functions []FunctionRef `json:"functions"`
	Classes   []string      `json:"classes"`
	Imports   []ImportRef   `json:"imports"`
}

type LineCounts struct {
	Total    int `json:"total"`
	Code     int `json:"code"`
	Comments int `json:"comments"`
}
