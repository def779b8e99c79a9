// Package localstore is the offline mirror of the backend: a JSON-file
// key-value store plus managers re-implementing the post and account
// operations against it. The blogclient package falls back to it when the
// backend is unreachable.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys. Each key is persisted as its own JSON file under the
// store directory.
const (
	KeyPosts       = "inkwell_posts"
	KeyUsers       = "inkwell_users"
	KeyCurrentUser = "inkwell_current_user"
	KeyToken       = "inkwell_token"
)

// ErrKeyNotFound is returned by Get when the key has never been set.
var ErrKeyNotFound = errors.New("localstore: key not found")

// Store persists each key as <dir>/<key>.json. All operations are safe for
// concurrent use within a single process.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open creates the store directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the value stored under key into dest. Returns ErrKeyNotFound
// when the key has never been set.
func (s *Store) Get(key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("localstore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return nil
}

// Set stores value under key, replacing any previous value. The write goes
// through a temp file and rename so a crash never leaves a half-written file.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting a key that was never set is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}
