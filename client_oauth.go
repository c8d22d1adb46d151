package goSession

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/oauth"
)

type oauthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type oauthCallbackRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
	State    string `json:"state"`
}

// BeginOAuth asks the identity service for the provider's authorization URL
// and persists the CSRF nonce for the attempt. Headless callers complete the
// flow with [Client.SignInWithOAuth]; interactive callers use
// [Client.SignInWithOAuthPopup] which wraps both halves.
func (c *Client) BeginOAuth(ctx context.Context, provider string) (authorizeURL, state string, err error) {
	if c == nil {
		return "", "", ErrClientNotReady
	}
	if provider == "" {
		return "", "", errors.New("provider required")
	}

	var resp oauthURLResponse
	err = c.gw.Call(ctx, gateway.Request{
		Method:      http.MethodGet,
		Path:        "/auth/oauth/" + provider + "/url",
		NoAuthRetry: true,
	}, &resp)
	if err != nil {
		return "", "", err
	}
	if resp.URL == "" || resp.State == "" {
		return "", "", errors.New("identity service returned incomplete authorization challenge")
	}

	if err := c.nonces.Save(ctx, provider, resp.State); err != nil {
		return "", "", fmt.Errorf("persist oauth nonce: %w", err)
	}

	c.metricInc(MetricOAuthStarted)
	c.emitAudit(ctx, auditEventOAuthStarted, true, provider, "", nil, nil)
	return resp.URL, resp.State, nil
}

// SignInWithOAuth completes a third-party sign-in from an already-delivered
// callback: the stored nonce is consumed and compared before anything else,
// and on mismatch the authorization code is never exchanged.
func (c *Client) SignInWithOAuth(ctx context.Context, provider, code, state string) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if provider == "" || code == "" {
		return nil, errors.New("provider and code required")
	}

	if err := oauth.ConsumeAndVerify(ctx, c.nonces, provider, state); err != nil {
		c.metricInc(MetricOAuthStateMismatch)
		c.emitAudit(ctx, auditEventOAuthStateMismatch, false, provider, "", ErrOAuthStateMismatch, nil)
		return nil, ErrOAuthStateMismatch
	}

	return c.exchangeOAuthCode(ctx, provider, code, state)
}

// SignInWithOAuthPopup runs the full interactive flow: authorization URL,
// popup, closure polling, CSRF verification, code exchange. A user-cancelled
// popup resolves silently with a nil user and nil error.
func (c *Client) SignInWithOAuthPopup(ctx context.Context, provider string) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if c.flow == nil {
		return nil, ErrPopupNotConfigured
	}

	authorizeURL, state, err := c.BeginOAuth(ctx, provider)
	if err != nil {
		return nil, err
	}

	code, err := c.flow.Run(ctx, provider, authorizeURL, state)
	if err != nil {
		switch {
		case errors.Is(err, ErrOAuthStateMismatch):
			c.metricInc(MetricOAuthStateMismatch)
			c.emitAudit(ctx, auditEventOAuthStateMismatch, false, provider, "", err, nil)
		case errors.Is(err, ErrOAuthPopupBlocked):
			c.metricInc(MetricOAuthPopupBlocked)
			c.emitAudit(ctx, auditEventOAuthPopupBlocked, false, provider, "", err, nil)
			c.notify(NotifyError, "popup blocked, allow popups for this site and try again")
		}
		return nil, err
	}
	if code == "" {
		// User closed the popup without completing the provider flow.
		c.metricInc(MetricOAuthCanceled)
		c.emitAudit(ctx, auditEventOAuthCanceled, true, provider, "", nil, nil)
		return nil, nil
	}

	return c.exchangeOAuthCode(ctx, provider, code, state)
}

func (c *Client) exchangeOAuthCode(ctx context.Context, provider, code, state string) (*User, error) {
	start := time.Now()
	var payload sessionPayload
	err := c.gw.Call(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/auth/oauth/callback",
		Body:        oauthCallbackRequest{Provider: provider, Code: code, State: state},
		NoAuthRetry: true,
	}, &payload)
	c.observeLatency(start)

	if err != nil {
		c.emitAudit(ctx, auditEventSignInFailure, false, provider, "", err, nil)
		return nil, err
	}

	user, err := c.adoptSession(payload)
	if err != nil {
		c.emitAudit(ctx, auditEventSignInFailure, false, provider, "", err, nil)
		return nil, err
	}

	c.metricInc(MetricOAuthCompleted)
	c.emitAudit(ctx, auditEventOAuthCompleted, true, provider, "", nil, nil)
	return user, nil
}
