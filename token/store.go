package token

import (
	"errors"
	"sync"
)

// ErrNoPair is returned by [Store.Get] when no token pair is currently held.
var ErrNoPair = errors.New("no token pair stored")

// Pair is the current access/refresh credential pair. Exactly one Pair is
// current at any time, or none (anonymous).
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid reports whether both halves of the pair are present.
func (p Pair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store defines a public type used by goSession APIs.
//
// Store implementations must serialize Get, Set, and Clear so that no caller
// observes a partially written pair.
type Store interface {
	Get() (Pair, error)
	Set(pair Pair) error
	Clear() error
}

// MemoryStore defines a public type used by goSession APIs.
//
// MemoryStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryStore struct {
	mu   sync.Mutex
	pair Pair
	held bool
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when no pair is held.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Get() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.held {
		return Pair{}, ErrNoPair
	}
	return s.pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation fails.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Set(pair Pair) error {
	if !pair.Valid() {
		return errors.New("refusing to store partial token pair")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = pair
	s.held = true
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}
	s.held = false
	return nil
}
