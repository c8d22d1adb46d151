// Package gateway executes outbound identity-service calls with the current
// access token attached and transparently recovers from stale-token
// authorization failures.
//
// # Design
//
// Every call carries at most one retry. When a request comes back 401 and has
// not been retried, the gateway joins a single-flight refresh keyed on the
// current token epoch: concurrent 401s collapse into exactly one network
// refresh, and every waiter observes the same outcome. A successful refresh
// rewrites the token store and the original request is re-issued once; a
// failed refresh clears the store and the request fails with
// [ErrUnauthorized]. Sign-out bumps the epoch, so a clear that races an
// in-flight refresh always wins: the refreshed pair is discarded instead of
// resurrecting a terminated session.
//
// # Architecture boundaries
//
// The gateway is one of exactly two writers of the token store (the other is
// the root client on sign-in/out) and its only reader. It never performs
// navigation or UI side effects; forced sign-out is reported through
// [Hooks.OnForcedSignOut] and the caller decides what to do with it.
//
// # What this package must NOT do
//
//   - Redirect, render, or notify the user directly.
//   - Retry a request more than once per call.
//   - Call the refresh endpoint when no pair is stored.
//   - Import goSession (the root package depends on this one).
package gateway
