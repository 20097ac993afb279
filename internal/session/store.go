package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/repo-memory/internal/apperror"
	"github.com/sakif/repo-memory/internal/model"
	"github.com/sakif/repo-memory/internal/repository"
)

// Storage keys, named after the browser localStorage keys of the web frontend.
const (
	KeyToken        = "github_token"
	KeyUser         = "github_user"
	KeySelectedRepo = "selected_repo"
	KeyDemoMode     = "demo_mode"
)

// Store is the load/save boundary for a Session.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// KVStore persists a Session in a key/value repository:
// the token and selected repo as plain strings, the user as JSON.
type KVStore struct {
	kv repository.KeyValueRepository
}

var _ Store = (*KVStore)(nil)

func NewKVStore(kv repository.KeyValueRepository) *KVStore {
	return &KVStore{kv: kv}
}

// Load restores the Session. Missing keys leave the matching field empty, so an
// empty store loads as unauthenticated.
func (st *KVStore) Load(ctx context.Context) (*Session, error) {
	var s Session

	token, err := st.get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	s.Token = token

	userJSON, err := st.get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if userJSON != "" {
		var u model.GitHubUser
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return nil, fmt.Errorf("session: decoding %s: %w", KeyUser, err)
		}
		s.User = &u
	}

	if s.SelectedRepo, err = st.get(ctx, KeySelectedRepo); err != nil {
		return nil, err
	}

	demo, err := st.get(ctx, KeyDemoMode)
	if err != nil {
		return nil, err
	}
	s.Demo = demo == "true"

	return &s, nil
}

// Save writes every key; empty fields delete theirs.
func (st *KVStore) Save(ctx context.Context, s *Session) error {
	userJSON := ""
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("session: encoding %s: %w", KeyUser, err)
		}
		userJSON = string(b)
	}

	demo := ""
	if s.Demo {
		demo = "true"
	}

	values := []struct{ key, value string }{
		{KeyToken, s.Token},
		{KeyUser, userJSON},
		{KeySelectedRepo, s.SelectedRepo},
		{KeyDemoMode, demo},
	}
	for _, v := range values {
		if err := st.put(ctx, v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}

func (st *KVStore) get(ctx context.Context, key string) (string, error) {
	v, err := st.kv.Get(ctx, key)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (st *KVStore) put(ctx context.Context, key, value string) error {
	if value == "" {
		return st.kv.Delete(ctx, key)
	}
	return st.kv.Set(ctx, key, value)
}
