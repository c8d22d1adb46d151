package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/oauth"
	"github.com/MrEthical07/goSession/token"
	"github.com/MrEthical07/goSession/twofactor"
)

var (
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrInvalidCredentials is an exported constant or variable used by the session client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is an exported constant or variable used by the session client.
	ErrAccountExists = errors.New("account already exists")
	// ErrNotAuthenticated is an exported constant or variable used by the session client.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoActiveEnrollment is an exported constant or variable used by the session client.
	ErrNoActiveEnrollment = errors.New("no two-factor enrollment in progress")
	// ErrPopupNotConfigured is an exported constant or variable used by the session client.
	ErrPopupNotConfigured = errors.New("popup launcher not configured")
)

// Transport and workflow sentinels re-exported from the leaf packages so
// callers can classify every failure with errors.Is against this package
// alone.
var (
	// ErrUnauthorized is an exported constant or variable used by the session client.
	ErrUnauthorized = gateway.ErrUnauthorized
	// ErrNetwork is an exported constant or variable used by the session client.
	ErrNetwork = gateway.ErrNetwork
	// ErrRateLimited is an exported constant or variable used by the session client.
	ErrRateLimited = gateway.ErrRateLimited
	// ErrOAuthStateMismatch is an exported constant or variable used by the session client.
	ErrOAuthStateMismatch = oauth.ErrStateMismatch
	// ErrOAuthPopupBlocked is an exported constant or variable used by the session client.
	ErrOAuthPopupBlocked = oauth.ErrPopupBlocked
	// ErrOAuthFlowTimeout is an exported constant or variable used by the session client.
	ErrOAuthFlowTimeout = oauth.ErrFlowTimeout
	// ErrTwoFactorCodeFormat is an exported constant or variable used by the session client.
	ErrTwoFactorCodeFormat = twofactor.ErrCodeFormat
	// ErrNoStoredToken is an exported constant or variable used by the session client.
	ErrNoStoredToken = token.ErrNoPair
)
