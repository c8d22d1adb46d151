// Package oauth negotiates third-party sign-in through a popup window and a
// single-use CSRF nonce, without assuming anything about the provider behind
// the popup.
//
// # Protocol
//
// The caller obtains an authorization URL and state nonce from the identity
// service, then hands both to [Coordinator.Run]. The coordinator persists the
// nonce, opens the popup, polls for closure on a fixed interval with an
// explicit timeout, and on closure reads the callback code/state from the
// [CallbackReader]. The stored nonce is consumed on its first comparison
// regardless of the outcome, and callback parameters are stripped on every
// exit path so a reload can never replay a code/state pair.
//
// # Edge cases
//
// A popup that cannot be opened fails immediately with [ErrPopupBlocked]. A
// popup closed without completing the flow resolves silently to "not
// authenticated"; cancellation is a normal outcome, not a failure. A state
// mismatch is [ErrStateMismatch] and the authorization code is never
// exchanged.
//
// # What this package must NOT do
//
//   - Exchange the authorization code (the root client owns that call).
//   - Retry after a CSRF mismatch.
//   - Import goSession or gateway.
package oauth
