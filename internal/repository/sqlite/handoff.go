package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/repository"
)

// compile-time check that *DB implements repository.HandoffRepository
var _ repository.HandoffRepository = (*DB)(nil)

// Create inserts a handoff. The caller sets ID, Sealed and ExpiresAt.
func (db *DB) Create(ctx context.Context, h *model.Handoff) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO handoffs (id, sealed, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		h.ID,
		h.Sealed,
		h.ExpiresAt.UTC(),
		h.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting handoff %s: %w", h.ID, err)
	}
	return nil
}

// Take deletes the handoff and returns it in a single statement, so two
// concurrent redemptions of the same id cannot both succeed.
//
// Expiry is not checked here; the service decides what an expired record means.
func (db *DB) Take(ctx context.Context, id string) (*model.Handoff, error) {
	var h model.Handoff
	err := db.conn.QueryRowContext(ctx,
		`DELETE FROM handoffs WHERE id = ? RETURNING id, sealed, expires_at, created_at`,
		id,
	).Scan(&h.ID, &h.Sealed, &h.ExpiresAt, &h.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("handoff", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: taking handoff %s: %w", id, err)
	}
	return &h, nil
}

// DeleteExpired removes handoffs that expired at or before now.
func (db *DB) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM handoffs WHERE expires_at <= ?`, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired handoffs: %w", err)
	}
	return res.RowsAffected()
}
