// Package twofactor models the bounded TOTP enrollment workflow:
// setup, verify, complete. Transitions move forward one step at a time,
// with a single allowed step back from verify to setup.
//
// # Architecture boundaries
//
// This package owns the step transitions and the client-side code format
// gate. All identity-service calls (setup provisioning, code verification,
// disable) belong to the root client; nothing here performs I/O.
//
// # What this package must NOT do
//
//   - Call the identity service.
//   - Persist the enrollment record anywhere (it is in-memory only and is
//     discarded on success, cancel, or navigation away).
//   - Treat the format gate as a security control; the server verifies the
//     TOTP code against the secret.
package twofactor
