package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/repository"
)

// KV is the key/value view of the database. It is a separate type because its
// method names (Get, Set, Delete) would clash with the handoff methods on DB.
type KV struct {
	db *DB
}

var _ repository.KeyValueRepository = (*KV)(nil)

// KV returns the key/value store backed by db.
func (db *DB) KV() *KV {
	return &KV{db: db}
}

func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperror.NotFound("key", key)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: reading key %s: %w", key, err)
	}
	return value, nil
}

// Set inserts or overwrites key.
func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: deleting key %s: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *KV) Clear(ctx context.Context) error {
	if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("sqlite: clearing kv: %w", err)
	}
	return nil
}
