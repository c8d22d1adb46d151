package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the token pair as a JSON document on local disk.
// Writes go through a temp file plus rename so a crash mid-write never
// leaves a torn pair behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore describes the newfilestore operation and its observable behavior.
//
// NewFileStore may return an error when input validation fails.
// NewFileStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path required")
	}
	return &FileStore{path: path}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when no pair is held or the stored document is unreadable.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *FileStore) Get() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pair{}, ErrNoPair
		}
		return Pair{}, fmt.Errorf("read token file: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, fmt.Errorf("decode token file: %w", err)
	}
	if !pair.Valid() {
		return Pair{}, ErrNoPair
	}
	return pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation or the filesystem write fails.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *FileStore) Set(pair Pair) error {
	if !pair.Valid() {
		return errors.New("refusing to store partial token pair")
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token pair: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when the filesystem delete fails; a missing file
// is not an error.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
