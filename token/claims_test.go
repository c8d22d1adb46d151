package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedAccessToken(t *testing.T, exp *time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: "u1"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}

func TestAccessExpiryReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, err := AccessExpiry(signedAccessToken(t, &exp))
	if err != nil {
		t.Fatalf("AccessExpiry failed: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry mismatch: got %v want %v", got, exp)
	}
}

func TestAccessExpiryMissingClaim(t *testing.T) {
	if _, err := AccessExpiry(signedAccessToken(t, nil)); err != ErrNoExpiry {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
}

func TestAccessExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	if !AccessExpired(signedAccessToken(t, &past), 0) {
		t.Fatal("expected past token to report expired")
	}
	if AccessExpired(signedAccessToken(t, &future), 0) {
		t.Fatal("expected future token to report live")
	}

	// Leeway pushes a soon-to-expire token into the expired bucket.
	soon := time.Now().Add(10 * time.Second)
	if !AccessExpired(signedAccessToken(t, &soon), time.Minute) {
		t.Fatal("expected leeway to mark soon-expiring token expired")
	}
}

func TestAccessExpiredMalformedToken(t *testing.T) {
	if AccessExpired("not-a-jwt", 0) {
		t.Fatal("malformed token must fall back to the reactive path")
	}
}
