package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the access token carries no exp claim.
var ErrNoExpiry = errors.New("access token has no expiry claim")

var claimsParser = jwt.NewParser()

// AccessExpiry reads the exp claim from an access token without verifying
// its signature. The identity service remains the authority on token
// validity; this peek only lets the gateway schedule a preemptive refresh.
func AccessExpiry(accessToken string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := claimsParser.ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// AccessExpired reports whether the access token's exp claim is in the past,
// allowing for the given leeway. Tokens without an exp claim, or that cannot
// be parsed at all, report false so the reactive 401 path stays in charge.
func AccessExpired(accessToken string, leeway time.Duration) bool {
	exp, err := AccessExpiry(accessToken)
	if err != nil {
		return false
	}
	return time.Now().Add(leeway).After(exp)
}
