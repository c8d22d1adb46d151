package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session client.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricSignInSuccess, Name: "gosession_sign_in_success_total", Help: "Successful credential sign-ins."},
	{ID: goSession.MetricSignInFailure, Name: "gosession_sign_in_failure_total", Help: "Failed credential sign-ins."},
	{ID: goSession.MetricSignUpSuccess, Name: "gosession_sign_up_success_total", Help: "Successful account registrations."},
	{ID: goSession.MetricSignUpFailure, Name: "gosession_sign_up_failure_total", Help: "Failed account registrations."},
	{ID: goSession.MetricSignOut, Name: "gosession_sign_out_total", Help: "Explicit sign-out operations."},
	{ID: goSession.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Successful token refreshes."},
	{ID: goSession.MetricRefreshShared, Name: "gosession_refresh_shared_total", Help: "Callers that joined an in-flight refresh instead of starting one."},
	{ID: goSession.MetricForcedSignOut, Name: "gosession_forced_sign_out_total", Help: "Sessions terminated by a failed refresh."},
	{ID: goSession.MetricRateLimited, Name: "gosession_rate_limited_total", Help: "Requests rejected by the identity service rate limiter."},
	{ID: goSession.MetricBootstrapAuthenticated, Name: "gosession_bootstrap_authenticated_total", Help: "Bootstraps that resumed an existing session."},
	{ID: goSession.MetricBootstrapAnonymous, Name: "gosession_bootstrap_anonymous_total", Help: "Bootstraps that resolved anonymous."},
	{ID: goSession.MetricOAuthStarted, Name: "gosession_oauth_started_total", Help: "OAuth flows started."},
	{ID: goSession.MetricOAuthCompleted, Name: "gosession_oauth_completed_total", Help: "OAuth flows completed with a session."},
	{ID: goSession.MetricOAuthCanceled, Name: "gosession_oauth_canceled_total", Help: "OAuth flows abandoned by the user."},
	{ID: goSession.MetricOAuthStateMismatch, Name: "gosession_oauth_state_mismatch_total", Help: "OAuth callbacks rejected for CSRF state mismatch."},
	{ID: goSession.MetricOAuthPopupBlocked, Name: "gosession_oauth_popup_blocked_total", Help: "OAuth flows that failed to open a popup."},
	{ID: goSession.MetricTwoFactorSetupRequested, Name: "gosession_two_factor_setup_requested_total", Help: "Two-factor enrollments started."},
	{ID: goSession.MetricTwoFactorEnabled, Name: "gosession_two_factor_enabled_total", Help: "Two-factor enrollments verified and enabled."},
	{ID: goSession.MetricTwoFactorDisabled, Name: "gosession_two_factor_disabled_total", Help: "Two-factor disable operations."},
	{ID: goSession.MetricTwoFactorFailure, Name: "gosession_two_factor_failure_total", Help: "Rejected two-factor codes, locally or by the service."},
	{ID: goSession.MetricBackupCodesRegenerated, Name: "gosession_backup_codes_regenerated_total", Help: "Backup-code regeneration operations."},
	{ID: goSession.MetricSessionRevoked, Name: "gosession_session_revoked_total", Help: "Single-session revocations."},
	{ID: goSession.MetricSessionsRevokedAll, Name: "gosession_sessions_revoked_all_total", Help: "Revoke-other-sessions operations."},
	{ID: goSession.MetricProfileUpdated, Name: "gosession_profile_updated_total", Help: "Server-confirmed profile updates."},
}

// HistogramDefs is an exported constant or variable used by the session client.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricRequestLatency, Name: "gosession_request_latency_seconds", Help: "Identity service request latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
