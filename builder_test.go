package goSession

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestBuildRequiresBaseURL(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected validation error without a base URL")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	stub := newIdentityStub(t)

	b := New().WithBaseURL(stub.srv.URL)
	client, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error from a reused builder")
	}
}

func TestBuildRejectsLauncherWithoutReader(t *testing.T) {
	stub := newIdentityStub(t)

	_, err := New().
		WithBaseURL(stub.srv.URL).
		WithPopupLauncher(&stubLauncher{popup: &stubPopup{}}, nil).
		Build()
	if err == nil {
		t.Fatal("expected error for launcher without callback reader")
	}
}

func TestBuildWithRedisPersistsTokensInRedis(t *testing.T) {
	stub := newIdentityStub(t)
	mr, rdb := newTestRedis(t)

	client, err := New().
		WithBaseURL(stub.srv.URL).
		WithHTTPClient(stub.srv.Client()).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if _, err := client.SignIn(context.Background(), Credentials{Email: "a@b.com", Password: "Aa1!aaaa"}); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	if !mr.Exists("gs:token") {
		t.Fatal("token pair was not persisted in redis")
	}

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if mr.Exists("gs:token") {
		t.Fatal("sign-out must clear the redis-backed store")
	}
}

func TestBuildWithRedisDerivesNonceStore(t *testing.T) {
	stub := newIdentityStub(t)
	mr, rdb := newTestRedis(t)

	client, err := New().
		WithBaseURL(stub.srv.URL).
		WithHTTPClient(stub.srv.Client()).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	if _, _, err := client.BeginOAuth(context.Background(), "github"); err != nil {
		t.Fatalf("begin oauth failed: %v", err)
	}
	if !mr.Exists("gs:oauth:nonce:github") {
		t.Fatal("oauth nonce was not persisted in redis")
	}
}
