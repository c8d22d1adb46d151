package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is an exported constant or variable used by the session client.
	ErrNetwork = errors.New("network failure")
	// ErrUnauthorized is an exported constant or variable used by the session client.
	ErrUnauthorized = errors.New("authentication failed")
	// ErrRateLimited is an exported constant or variable used by the session client.
	ErrRateLimited = errors.New("rate limited")
)

// APIError carries a non-auth failure response from the identity service.
// Authorization failures and throttling surface as [ErrUnauthorized] and
// [ErrRateLimited] instead.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("identity service error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("identity service error (%d)", e.Status)
}

// StatusCode extracts the HTTP status from an [APIError] in err's chain,
// or 0 when the error did not come from a decoded service response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
