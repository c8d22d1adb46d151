// Package goSession manages the client side of an authentication session
// against a remote identity service: token custody, transparent single-flight
// refresh-and-retry, reactive session state, OAuth popup negotiation, and
// two-factor enrollment.
//
// The package is designed for concurrent application workloads: Client
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Client], [Builder], [Config],
// and value types (AuthState, User, Session, MetricsSnapshot). Token custody
// lives in the token package, transport and refresh coordination in gateway,
// CSRF nonce and popup negotiation in oauth, and the enrollment workflow in
// twofactor; the root package orchestrates them and owns the state machine.
//
// # What this package must NOT do
//
//   - Render UI or navigate; forced sign-out surfaces through state and the
//     optional [Notifier].
//   - Apply profile or security changes optimistically; local state only
//     changes after the identity service confirms.
//   - Hold more than one access/refresh pair at a time.
//
// # Refresh contract
//
// Any request answered with 401 triggers exactly one refresh and one retry,
// shared across all concurrent callers of the same token generation. A failed
// refresh clears the store and forces Anonymous; a sign-out that lands while
// a refresh is in flight wins unconditionally.
package goSession
