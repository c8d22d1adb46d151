package oauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryNonceSingleUse(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, "github", "abc123"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	state, err := store.Consume(ctx, "github")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if state != "abc123" {
		t.Fatalf("unexpected state: %q", state)
	}

	if _, err := store.Consume(ctx, "github"); !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("second consume must fail, got %v", err)
	}
}

func TestMemoryNonceExpiry(t *testing.T) {
	store := NewMemoryNonceStore(time.Millisecond)
	ctx := context.Background()

	if err := store.Save(ctx, "google", "xyz"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := store.Consume(ctx, "google"); !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("expired nonce must not be returned, got %v", err)
	}
}

func TestRedisNonceSingleUse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedisNonceStore(rdb, "gs-test", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisNonceStore failed: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "github", "abc123"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	state, err := store.Consume(ctx, "github")
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if state != "abc123" {
		t.Fatalf("unexpected state: %q", state)
	}
	if _, err := store.Consume(ctx, "github"); !errors.Is(err, ErrNonceNotFound) {
		t.Fatalf("second consume must fail, got %v", err)
	}
}

func TestVerifyState(t *testing.T) {
	if !VerifyState("abc123", "abc123") {
		t.Fatal("matching states must verify")
	}
	if VerifyState("abc123", "xyz999") {
		t.Fatal("mismatched states must not verify")
	}
	if VerifyState("", "") {
		t.Fatal("empty states must never verify")
	}
}

func TestConsumeAndVerify(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, "github", "abc123"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := ConsumeAndVerify(ctx, store, "github", "xyz999"); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("expected ErrStateMismatch, got %v", err)
	}

	// The failed comparison consumed the nonce; a matching retry must
	// also fail.
	if err := ConsumeAndVerify(ctx, store, "github", "abc123"); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("nonce must be single-use, got %v", err)
	}
}

func TestNewStateOpaque(t *testing.T) {
	a, b := NewState(), NewState()
	if a == "" || b == "" || a == b {
		t.Fatalf("expected distinct non-empty states, got %q and %q", a, b)
	}
}
