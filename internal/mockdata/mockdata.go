// Package mockdata serves the hand-authored demo fixtures: the sample repository
// analysis, role-based onboarding tours, canned chat answers and starter tasks.
//
// The fixtures live as YAML files embedded in the binary. They are parsed once by
// Load into a *Fixtures value which is read-only from then on, so a single value
// can be shared by every request without locking.
//
// The "AI" here is a keyword lookup: GetRandomResponse returns the first canned
// answer whose key appears in the question, and GetTourByRole picks one of three
// prepared tours.
package mockdata

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sakif/repo-memory/internal/model"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Roles that have a dedicated onboarding tour.
const (
	RoleFrontend = "frontend"
	RoleBackend  = "backend"
	RoleDevOps   = "devops"

	// DefaultRole is used for any role outside the allow-list.
	DefaultRole = RoleBackend
)

var validRoles = []string{RoleFrontend, RoleBackend, RoleDevOps}

// chatEntry is one keyed answer. Order in the fixture file is match order.
type chatEntry struct {
	Key    string `yaml:"key"`
	Answer string `yaml:"answer"`
}

type chatFixture struct {
	Answers []chatEntry `yaml:"answers"`
	Default string      `yaml:"default"`
}

// Fixtures holds every demo object. Obtain one with Load; do not modify it.
type Fixtures struct {
	analysis model.AnalysisData
	tours    map[string][]model.TourStep
	chat     chatFixture
	tasks    []model.StarterTask
}

// Load parses the embedded fixtures and stamps the analysis with loadedAt.
func Load(loadedAt time.Time) (*Fixtures, error) {
	f := &Fixtures{}

	if err := decode("fixtures/analysis.yaml", &f.analysis); err != nil {
		return nil, err
	}
	f.analysis.Summary.AnalyzedAt = loadedAt.UTC()
	if f.analysis.Metadata.Classes == nil {
		f.analysis.Metadata.Classes = []string{}
	}

	if err := decode("fixtures/tours.yaml", &f.tours); err != nil {
		return nil, err
	}
	for _, role := range validRoles {
		if len(f.tours[role]) == 0 {
			return nil, fmt.Errorf("mockdata: no tour defined for role %q", role)
		}
	}

	if err := decode("fixtures/chat.yaml", &f.chat); err != nil {
		return nil, err
	}
	if f.chat.Default == "" {
		return nil, fmt.Errorf("mockdata: chat fixture has no default answer")
	}

	if err := decode("fixtures/tasks.yaml", &f.tasks); err != nil {
		return nil, err
	}

	return f, nil
}

// MustLoad is Load for callers that treat a broken fixture as a programming error.
func MustLoad() *Fixtures {
	f, err := Load(time.Now())
	if err != nil {
		panic(err)
	}
	return f
}

func decode(name string, out any) error {
	raw, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("mockdata: reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("mockdata: decoding %s: %w", name, err)
	}
	return nil
}

// Analysis returns the demo repository analysis.
func (f *Fixtures) Analysis() model.AnalysisData {
	return f.analysis
}

// DefaultTour is the tour served when no role is requested.
func (f *Fixtures) DefaultTour() []model.TourStep {
	return f.tours[DefaultRole]
}

// GetTourByRole returns the tour for role, or the backend tour when role is not
// one of frontend, backend or devops. Matching is exact (case-sensitive).
func (f *Fixtures) GetTourByRole(role string) []model.TourStep {
	return f.tours[NormalizeRole(role)]
}

// NormalizeRole maps any role outside the allow-list to DefaultRole.
func NormalizeRole(role string) string {
	for _, r := range validRoles {
		if r == role {
			return role
		}
	}
	return DefaultRole
}

// GetRandomResponse lower-cases question and returns the answer of the first
// fixture key contained in it, or the default answer when no key matches.
func (f *Fixtures) GetRandomResponse(question string) string {
	q := strings.ToLower(question)
	for _, entry := range f.chat.Answers {
		if strings.Contains(q, entry.Key) {
			return entry.Answer
		}
	}
	return f.chat.Default
}

// DefaultAnswer is the fallback chat answer.
func (f *Fixtures) DefaultAnswer() string {
	return f.chat.Default
}

// StarterTasks returns the suggested first contributions.
func (f *Fixtures) StarterTasks() []model.StarterTask {
	return f.tasks
}

// FileDetails returns placeholder content for any path in the demo repository.
func (f *Fixtures) FileDetails(path string) model.FileDetails {
	return model.FileDetails{
		Path:     path,
		Content:  "// Mock file content for demo\n// This would contain the actual file code",
		Language: "javascript",
		Parsed: model.ParsedFile{
			Functions: []model.FunctionRef{},
			Classes:   []string{},
			Imports:   []model.ImportRef{},
		},
		Lines: model.LineCounts{Total: 50, Code: 42, Comments: 8},
	}
}
