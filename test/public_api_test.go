package test

import (
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/oauth"
	"github.com/MrEthical07/goSession/token"
	"github.com/MrEthical07/goSession/twofactor"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goSession.New

	var _ *goSession.Builder
	var _ *goSession.Client
	var _ goSession.Config
	var _ goSession.AuthState
	var _ goSession.AuthStatus
	var _ goSession.User
	var _ goSession.Credentials
	var _ goSession.SignUpDetails
	var _ goSession.UserUpdate
	var _ goSession.TwoFactorSetup
	var _ goSession.Session
	var _ goSession.TokenPair
	var _ goSession.Notifier
	var _ goSession.AuditSink
	var _ goSession.AuditEvent
	var _ goSession.MetricsSnapshot
	var _ goSession.Report

	var _ error = goSession.ErrClientNotReady
	var _ error = goSession.ErrInvalidCredentials
	var _ error = goSession.ErrAccountExists
	var _ error = goSession.ErrNotAuthenticated
	var _ error = goSession.ErrNoActiveEnrollment
	var _ error = goSession.ErrPopupNotConfigured
	var _ error = goSession.ErrUnauthorized
	var _ error = goSession.ErrNetwork
	var _ error = goSession.ErrRateLimited
	var _ error = goSession.ErrOAuthStateMismatch
	var _ error = goSession.ErrOAuthPopupBlocked
	var _ error = goSession.ErrOAuthFlowTimeout
	var _ error = goSession.ErrTwoFactorCodeFormat
	var _ error = goSession.ErrNoStoredToken

	var _ token.Store = token.NewMemoryStore()
	var _ token.Pair
	var _ error = token.ErrNoPair

	var _ *gateway.Gateway
	var _ gateway.Request
	var _ gateway.Options
	var _ error = gateway.ErrUnauthorized
	var _ error = gateway.ErrNetwork
	var _ error = gateway.ErrRateLimited
	_ = gateway.StatusCode

	var _ oauth.NonceStore
	var _ oauth.Launcher
	var _ oauth.CallbackReader
	var _ *oauth.Coordinator
	_ = oauth.NewState
	_ = oauth.VerifyState

	var _ twofactor.Step
	var _ *twofactor.Enrollment
	_ = twofactor.ValidateCode

	_ = goSession.StatusUninitialized
	_ = goSession.StatusLoading
	_ = goSession.StatusAuthenticated
	_ = goSession.StatusAnonymous
}
