// Package repository declares the storage interfaces. The sqlite subpackage
// implements them; services depend only on these interfaces.
package repository

import (
	"context"
	"time"

	"github.com/sakif/repo-memory/internal/model"
)

// HandoffRepository stores sealed AuthSessions between the OAuth callback and
// the frontend redeeming them.
type HandoffRepository interface {
	Create(ctx context.Context, h *model.Handoff) error
	// Take removes the handoff and returns it. A second Take of the same id
	// returns an apperror.ErrNotFound error.
	Take(ctx context.Context, id string) (*model.Handoff, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// KeyValueRepository is a flat string store. The CLI keeps its session state
// (github_token, github_user, selected_repo, demo_mode) in one.
type KeyValueRepository interface {
	// Get returns an apperror.ErrNotFound error when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
