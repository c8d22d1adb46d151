package token

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedisStore(rdb, "gs-test")
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)

	if _, err := store.Get(); !errors.Is(err, ErrNoPair) {
		t.Fatalf("expected ErrNoPair on empty store, got %v", err)
	}

	pair := Pair{AccessToken: "at-r", RefreshToken: "rt-r"}
	if err := store.Set(pair); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != pair {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pair)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(); !errors.Is(err, ErrNoPair) {
		t.Fatalf("expected ErrNoPair after clear, got %v", err)
	}
}

func TestRedisStoreSingleKey(t *testing.T) {
	store, mr := newRedisStore(t)

	if err := store.Set(Pair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if !mr.Exists("gs-test:token") {
		t.Fatal("expected pair under single gs-test:token key")
	}
	if got := len(mr.Keys()); got != 1 {
		t.Fatalf("expected exactly one key, got %d", got)
	}
}

func TestRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil, "x"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
