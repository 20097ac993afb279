package model

import "time"

// Handoff is a one-time, short-lived record holding a sealed AuthSession.
// It lets the OAuth callback redirect with an opaque id instead of the token.
type Handoff struct {
	ID        string
	Sealed    []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the handoff can no longer be redeemed at now.
func (h *Handoff) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
