package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNonceNotFound is returned by [NonceStore.Consume] when no nonce is
// stored for the provider, either because none was saved or because it was
// already consumed.
var ErrNonceNotFound = errors.New("oauth nonce not found")

const defaultNonceTTL = 10 * time.Minute

// NewState returns fresh opaque nonce material for one sign-in attempt.
func NewState() string {
	return uuid.NewString()
}

// VerifyState compares a stored nonce with a callback state in constant time.
func VerifyState(stored, got string) bool {
	if stored == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(got)) == 1
}

// NonceStore persists the CSRF nonce for the lifetime of one sign-in
// attempt. Consume deletes the nonce on first read so it can never be
// compared twice.
type NonceStore interface {
	Save(ctx context.Context, provider, state string) error
	Consume(ctx context.Context, provider string) (string, error)
}

// ConsumeAndVerify consumes the stored nonce for provider and compares it
// against the callback state. The nonce is gone after this call whether or
// not the comparison succeeds.
func ConsumeAndVerify(ctx context.Context, store NonceStore, provider, state string) error {
	stored, err := store.Consume(ctx, provider)
	if err != nil {
		return ErrStateMismatch
	}
	if !VerifyState(stored, state) {
		return ErrStateMismatch
	}
	return nil
}

type memoryNonce struct {
	state     string
	createdAt time.Time
}

// MemoryNonceStore defines a public type used by goSession APIs.
//
// MemoryNonceStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryNonceStore struct {
	mu     sync.Mutex
	nonces map[string]memoryNonce
	ttl    time.Duration
}

// NewMemoryNonceStore describes the newmemorynoncestore operation and its observable behavior.
//
// NewMemoryNonceStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryNonceStore(ttl time.Duration) *MemoryNonceStore {
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}
	return &MemoryNonceStore{
		nonces: make(map[string]memoryNonce),
		ttl:    ttl,
	}
}

// Save describes the save operation and its observable behavior.
//
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryNonceStore) Save(_ context.Context, provider, state string) error {
	if provider == "" || state == "" {
		return errors.New("provider and state required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nonces[provider] = memoryNonce{state: state, createdAt: time.Now()}
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when no live nonce exists for the provider.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryNonceStore) Consume(_ context.Context, provider string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, ok := s.nonces[provider]
	if !ok {
		return "", ErrNonceNotFound
	}
	delete(s.nonces, provider)

	if time.Since(nonce.createdAt) > s.ttl {
		return "", ErrNonceNotFound
	}
	return nonce.state, nil
}

// RedisNonceStore defines a public type used by goSession APIs.
//
// RedisNonceStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisNonceStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisNonceStore describes the newredisnoncestore operation and its observable behavior.
//
// NewRedisNonceStore may return an error when input validation fails.
// NewRedisNonceStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisNonceStore(rdb *redis.Client, prefix string, ttl time.Duration) (*RedisNonceStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "gosession"
	}
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}
	return &RedisNonceStore{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisNonceStore) key(provider string) string {
	return s.prefix + ":oauth:nonce:" + provider
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation fails or Redis is unreachable.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisNonceStore) Save(ctx context.Context, provider, state string) error {
	if provider == "" || state == "" {
		return errors.New("provider and state required")
	}
	if err := s.rdb.Set(ctx, s.key(provider), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save nonce: %w", err)
	}
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when no live nonce exists for the provider or
// Redis is unreachable.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisNonceStore) Consume(ctx context.Context, provider string) (string, error) {
	state, err := s.rdb.GetDel(ctx, s.key(provider)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNonceNotFound
		}
		return "", fmt.Errorf("redis consume nonce: %w", err)
	}
	return state, nil
}
