// Package model defines the data structures used throughout the application.
//
// The JSON tags follow the wire format the frontend already consumes, which mixes
// GitHub's snake_case (avatar_url, full_name) with camelCase for the analysis
// objects (projectName, keyFiles).
package model

// GitHubUser is the profile carried inside an AuthSession.
//
// Name falls back to Login when the GitHub profile has no display name.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// AuthSession is what a successful OAuth callback hands to the frontend.
// The backend keeps no copy of it (except briefly, sealed, in handoff mode).
type AuthSession struct {
	Token string     `json:"token"`
	User  GitHubUser `json:"user"`
}

// VerifiedUser is the projection returned by GET /api/auth/verify.
type VerifiedUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
