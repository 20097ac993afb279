package session

import (
	"context"
	"testing"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/repository/sqlite"
)

// memKV is an in-memory KeyValueRepository.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", apperror.NotFound("key", key)
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memKV) Clear(_ context.Context) error {
	m.data = map[string]string{}
	return nil
}

func TestKVStore_EmptyLoadsUnauthenticated(t *testing.T) {
	st := NewKVStore(newMemKV())

	s, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.State() != StateUnauthenticated {
		t.Errorf("State() = %s, want %s", s.State(), StateUnauthenticated)
	}
}

func TestKVStore_KeyLayout(t *testing.T) {
	kv := newMemKV()
	st := NewKVStore(kv)

	var s Session
	_ = s.CompleteGitHubLogin(testAuth())
	_ = s.SelectRepo("octocat/hello")

	if err := st.Save(context.Background(), &s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if kv.data[KeyToken] != "gho_abc" {
		t.Errorf("%s = %q", KeyToken, kv.data[KeyToken])
	}
	if kv.data[KeySelectedRepo] != "octocat/hello" {
		t.Errorf("%s = %q", KeySelectedRepo, kv.data[KeySelectedRepo])
	}
	wantUser := `{"id":1,"login":"octocat","name":"The Octocat","avatar_url":"","html_url":""}`
	if kv.data[KeyUser] != wantUser {
		t.Errorf("%s = %s, want %s", KeyUser, kv.data[KeyUser], wantUser)
	}
	if _, ok := kv.data[KeyDemoMode]; ok {
		t.Error("demo_mode should not be stored for a GitHub session")
	}
}

func TestKVStore_LogoutDeletesKeys(t *testing.T) {
	kv := newMemKV()
	st := NewKVStore(kv)
	ctx := context.Background()

	var s Session
	_ = s.CompleteGitHubLogin(testAuth())
	_ = st.Save(ctx, &s)

	s.Logout()
	if err := st.Save(ctx, &s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(kv.data) != 0 {
		t.Errorf("keys left after logout: %v", kv.data)
	}
}

// Load must restore a session saved by another process without contacting GitHub.
func TestKVStore_SQLiteRoundTrip(t *testing.T) {
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	var s Session
	_ = s.EnterDemo()
	if err := NewKVStore(db.KV()).Save(ctx, &s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewKVStore(db.KV()).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.State() != StateDemo {
		t.Errorf("State() = %s, want %s", loaded.State(), StateDemo)
	}

	_ = loaded.CompleteGitHubLogin(testAuth())
	_ = loaded.SelectRepo("octocat/hello")
	_ = NewKVStore(db.KV()).Save(ctx, loaded)

	again, err := NewKVStore(db.KV()).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again.State() != StateGitHubWithRepo || again.User == nil || again.User.Login != "octocat" {
		t.Errorf("reloaded session = %+v", again)
	}
}
