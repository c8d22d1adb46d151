// Package token owns custody of the access/refresh token pair.
//
// # Design
//
// A [Store] holds at most one current [Pair]. Get, Set, and Clear are atomic
// with respect to each other: a reader never observes a half-written pair.
// Three backends are provided: [MemoryStore] for tests and short-lived
// processes, [FileStore] for durable client-local storage, and [RedisStore]
// for headless clients that share a credential across processes.
//
// # Architecture boundaries
//
// This package is the only component permitted to hold the literal token
// bytes. It performs no identity-service calls and has no UI side effects.
// [AccessExpiry] peeks at unverified JWT claims for scheduling purposes only;
// it is never a security control.
//
// # What this package must NOT do
//
//   - Call the identity service or trigger a refresh.
//   - Validate token signatures.
//   - Import goSession or any sibling package.
package token
