package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// RedisStore keeps the token pair under a single Redis key so Set and Clear
// stay atomic without scripting. Intended for headless clients where several
// processes share one identity.
type RedisStore struct {
	rdb     *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation fails.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(rdb *redis.Client, prefix string) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "gosession"
	}
	return &RedisStore{
		rdb:     rdb,
		key:     prefix + ":token",
		timeout: defaultRedisTimeout,
	}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when no pair is held or Redis is unreachable.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Get() (Pair, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Pair{}, ErrNoPair
		}
		return Pair{}, fmt.Errorf("redis get token: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, fmt.Errorf("decode stored token: %w", err)
	}
	if !pair.Valid() {
		return Pair{}, ErrNoPair
	}
	return pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation fails or Redis is unreachable.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Set(pair Pair) error {
	if !pair.Valid() {
		return errors.New("refusing to store partial token pair")
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token pair: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when Redis is unreachable; a missing key is not
// an error.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear token: %w", err)
	}
	return nil
}
