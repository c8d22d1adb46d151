package goSession

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSignInSuccess          = "sign_in_success"
	auditEventSignInFailure          = "sign_in_failure"
	auditEventSignUpSuccess          = "sign_up_success"
	auditEventSignUpFailure          = "sign_up_failure"
	auditEventSignOut                = "sign_out"
	auditEventRefreshSuccess         = "refresh_success"
	auditEventForcedSignOut          = "forced_sign_out"
	auditEventBootstrapResolved      = "bootstrap_resolved"
	auditEventRateLimited            = "rate_limited"
	auditEventOAuthStarted           = "oauth_started"
	auditEventOAuthCompleted         = "oauth_completed"
	auditEventOAuthCanceled          = "oauth_canceled"
	auditEventOAuthStateMismatch     = "oauth_state_mismatch"
	auditEventOAuthPopupBlocked      = "oauth_popup_blocked"
	auditEventTOTPSetupRequested     = "totp_setup_requested"
	auditEventTOTPEnabled            = "totp_enabled"
	auditEventTOTPDisabled           = "totp_disabled"
	auditEventTOTPFailure            = "totp_failure"
	auditEventBackupCodesRegenerated = "backup_codes_regenerated"
	auditEventSessionRevoked         = "session_revoked"
	auditEventSessionsRevokedAll     = "sessions_revoked_all"
	auditEventProfileUpdated         = "profile_updated"
)

// AuditErrorCode defines a public type used by goSession APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized       AuditErrorCode = "unauthorized"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrNetwork            AuditErrorCode = "network_failure"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrStateMismatch      AuditErrorCode = "oauth_state_mismatch"
	auditErrPopupBlocked       AuditErrorCode = "oauth_popup_blocked"
	auditErrFlowTimeout        AuditErrorCode = "oauth_flow_timeout"
	auditErrCodeFormat         AuditErrorCode = "totp_code_format"
	auditErrNotAuthenticated   AuditErrorCode = "not_authenticated"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (c *Client) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	provider string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if c == nil || c.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    c.currentUserID(),
		Provider:  provider,
		SessionID: sessionID,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	c.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrOAuthStateMismatch):
		return auditErrStateMismatch
	case errors.Is(err, ErrOAuthPopupBlocked):
		return auditErrPopupBlocked
	case errors.Is(err, ErrOAuthFlowTimeout):
		return auditErrFlowTimeout
	case errors.Is(err, ErrTwoFactorCodeFormat):
		return auditErrCodeFormat
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrAccountExists):
		return auditErrDuplicate
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrNetwork):
		return auditErrNetwork
	default:
		return auditErrInternal
	}
}
