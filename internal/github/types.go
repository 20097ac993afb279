package github

import "time"

// User is the subset of GET /user the backend reads.
// Name is nil when the profile has no display name.
type User struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	HTMLURL   string  `json:"html_url"`
}

// DisplayName returns Name, or Login when Name is empty.
func (u *User) DisplayName() string {
	if u.Name == nil || *u.Name == "" {
		return u.Login
	}
	return *u.Name
}

// Repository is the subset of a GitHub repository object the backend reads.
type Repository struct {
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

// Content entry types.
const (
	ContentFile = "file"
	ContentDir  = "dir"
)

// ContentEntry is one item of GET /repos/{owner}/{repo}/contents.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // file, dir, symlink, submodule
	Size int64  `json:"size"`
}
