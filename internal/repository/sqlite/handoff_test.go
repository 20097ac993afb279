package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/model"
)

func createTestHandoff(t *testing.T, db *DB, id string, expiresAt time.Time) {
	t.Helper()
	h := &model.Handoff{ID: id, Sealed: []byte("sealed-" + id), ExpiresAt: expiresAt}
	if err := db.Create(context.Background(), h); err != nil {
		t.Fatalf("Create(%s) error = %v", id, err)
	}
}

// =========================================================================
// CREATE / TAKE TESTS
// =========================================================================

func TestHandoff_CreateAndTake(t *testing.T) {
	db := newTestDB(t)
	expires := time.Now().Add(2 * time.Minute).UTC().Truncate(time.Second)
	createTestHandoff(t, db, "h1", expires)

	got, err := db.Take(context.Background(), "h1")
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if got.ID != "h1" || string(got.Sealed) != "sealed-h1" {
		t.Errorf("Take() = %+v", got)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not stored")
	}
}

func TestHandoff_TakeIsOneTime(t *testing.T) {
	db := newTestDB(t)
	createTestHandoff(t, db, "once", time.Now().Add(time.Minute))

	if _, err := db.Take(context.Background(), "once"); err != nil {
		t.Fatalf("first Take() error = %v", err)
	}
	_, err := db.Take(context.Background(), "once")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Take() error = %v, want ErrNotFound", err)
	}
}

func TestHandoff_TakeUnknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Take(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Take() error = %v, want ErrNotFound", err)
	}
}

func TestHandoff_ConcurrentTakeSucceedsOnce(t *testing.T) {
	db := newTestDB(t)
	createTestHandoff(t, db, "race", time.Now().Add(time.Minute))

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.Take(context.Background(), "race"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("successful Takes = %d, want 1", wins)
	}
}

func TestHandoff_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	createTestHandoff(t, db, "dup", time.Now().Add(time.Minute))

	err := db.Create(context.Background(), &model.Handoff{ID: "dup", Sealed: []byte("x"), ExpiresAt: time.Now()})
	if err == nil {
		t.Fatal("Create() with a duplicate id should fail")
	}
}

// =========================================================================
// EXPIRY TESTS
// =========================================================================

func TestHandoff_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()
	createTestHandoff(t, db, "old1", now.Add(-time.Minute))
	createTestHandoff(t, db, "old2", now.Add(-time.Second))
	createTestHandoff(t, db, "fresh", now.Add(time.Minute))

	n, err := db.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteExpired() removed %d, want 2", n)
	}
	if _, err := db.Take(context.Background(), "fresh"); err != nil {
		t.Errorf("fresh handoff should survive: %v", err)
	}
}
