package goSession

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/twofactor"
)

type twoFactorCodeRequest struct {
	Code string `json:"code"`
}

type twoFactorDisableRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

type backupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

// BeginTwoFactorSetup starts an enrollment: the identity service provisions
// a secret, QR payload, and one-time-visible backup codes, and the local
// workflow advances to the verify step. An enrollment already in progress is
// discarded first.
func (c *Client) BeginTwoFactorSetup(ctx context.Context) (*TwoFactorSetup, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	var setup TwoFactorSetup
	if err := c.gw.Post(ctx, "/auth/2fa/setup", nil, &setup); err != nil {
		c.emitAudit(ctx, auditEventTOTPFailure, false, "", "", err, nil)
		return nil, err
	}

	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment != nil {
		c.enrollment.Discard()
	}
	e := twofactor.NewEnrollment()
	if err := e.Provision(setup.Secret, setup.QRCode, setup.BackupCodes); err != nil {
		return nil, err
	}
	c.enrollment = e

	c.metricInc(MetricTwoFactorSetupRequested)
	c.emitAudit(ctx, auditEventTOTPSetupRequested, true, "", "", nil, nil)
	return &setup, nil
}

// TwoFactorSetupStep reports the current enrollment step, or
// [ErrNoActiveEnrollment] when none is in progress.
func (c *Client) TwoFactorSetupStep() (twofactor.Step, error) {
	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment == nil {
		return twofactor.StepSetup, ErrNoActiveEnrollment
	}
	return c.enrollment.Step(), nil
}

// BackTwoFactorSetup steps the enrollment from verify back to setup,
// discarding the provisioned secret. The next [Client.BeginTwoFactorSetup]
// call issues fresh material.
func (c *Client) BackTwoFactorSetup() error {
	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment == nil {
		return ErrNoActiveEnrollment
	}
	return c.enrollment.Back()
}

// CancelTwoFactorSetup abandons the enrollment and zeroes its material.
func (c *Client) CancelTwoFactorSetup() {
	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment != nil {
		c.enrollment.Discard()
		c.enrollment = nil
	}
}

// VerifyTwoFactorCode proves possession of the enrolled secret. The code is
// format-checked locally before any network call; a server rejection keeps
// the enrollment at the verify step for another attempt.
func (c *Client) VerifyTwoFactorCode(ctx context.Context, code string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if err := twofactor.ValidateCode(code); err != nil {
		c.metricInc(MetricTwoFactorFailure)
		return err
	}

	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment == nil || c.enrollment.Step() != twofactor.StepVerify {
		return ErrNoActiveEnrollment
	}

	err := c.gw.Post(ctx, "/auth/2fa/verify", twoFactorCodeRequest{Code: code}, nil)
	if err != nil {
		c.metricInc(MetricTwoFactorFailure)
		c.emitAudit(ctx, auditEventTOTPFailure, false, "", "", err, nil)
		if gateway.StatusCode(err) == http.StatusBadRequest {
			return errors.New("two-factor code rejected")
		}
		return err
	}

	if err := c.enrollment.MarkVerified(); err != nil {
		return err
	}

	c.markTwoFactor(true)
	c.metricInc(MetricTwoFactorEnabled)
	c.emitAudit(ctx, auditEventTOTPEnabled, true, "", "", nil, nil)
	return nil
}

// AcknowledgeTwoFactorSetup finishes a completed enrollment after the user
// has saved their backup codes. The codes are unrecoverable afterwards.
func (c *Client) AcknowledgeTwoFactorSetup() error {
	c.enrollMu.Lock()
	defer c.enrollMu.Unlock()

	if c.enrollment == nil {
		return ErrNoActiveEnrollment
	}
	if c.enrollment.Step() != twofactor.StepComplete {
		return twofactor.ErrInvalidTransition
	}
	c.enrollment.Discard()
	c.enrollment = nil
	return nil
}

// DisableTwoFactor turns the second factor off. The identity service
// requires both the account password and a currently valid code; the code is
// format-checked locally first.
func (c *Client) DisableTwoFactor(ctx context.Context, password, code string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return err
	}
	if password == "" {
		return ErrInvalidCredentials
	}
	if err := twofactor.ValidateCode(code); err != nil {
		c.metricInc(MetricTwoFactorFailure)
		return err
	}

	err := c.gw.Post(ctx, "/auth/2fa/disable", twoFactorDisableRequest{Password: password, Code: code}, nil)
	if err != nil {
		c.metricInc(MetricTwoFactorFailure)
		c.emitAudit(ctx, auditEventTOTPFailure, false, "", "", err, nil)
		return err
	}

	c.markTwoFactor(false)
	c.metricInc(MetricTwoFactorDisabled)
	c.emitAudit(ctx, auditEventTOTPDisabled, true, "", "", nil, nil)
	return nil
}

// RegenerateBackupCodes replaces the backup code set. The old set is invalid
// the moment this returns; the new set is shown once. A valid TOTP code is
// required, mirroring the enable path.
func (c *Client) RegenerateBackupCodes(ctx context.Context, code string) ([]string, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}
	if err := twofactor.ValidateCode(code); err != nil {
		c.metricInc(MetricTwoFactorFailure)
		return nil, err
	}

	var resp backupCodesResponse
	err := c.gw.Post(ctx, "/auth/2fa/backup-codes", twoFactorCodeRequest{Code: code}, &resp)
	if err != nil {
		c.metricInc(MetricTwoFactorFailure)
		c.emitAudit(ctx, auditEventTOTPFailure, false, "", "", err, nil)
		return nil, err
	}
	if len(resp.BackupCodes) == 0 {
		return nil, errors.New("identity service returned no backup codes")
	}

	c.metricInc(MetricBackupCodesRegenerated)
	c.emitAudit(ctx, auditEventBackupCodesRegenerated, true, "", "", nil, nil)
	return resp.BackupCodes, nil
}

// markTwoFactor updates the TwoFactorEnabled flag on the current snapshot
// after the server confirmed the change.
func (c *Client) markTwoFactor(enabled bool) {
	user := c.currentUser()
	if user == nil {
		return
	}
	updated := *user
	updated.TwoFactorEnabled = enabled
	c.setState(StatusAuthenticated, &updated)
}
