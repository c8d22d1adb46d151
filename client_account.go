package goSession

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/goSession/gateway"
)

// sessionPayload is the identity service's response to any call that opens a
// session: credential sign-in, sign-up, and the OAuth code exchange.
type sessionPayload struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) adoptSession(p sessionPayload) (*User, error) {
	pair := TokenPair{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	if !pair.Valid() {
		return nil, errors.New("identity service returned partial token pair")
	}
	if err := c.store.Set(pair); err != nil {
		return nil, fmt.Errorf("persist token pair: %w", err)
	}

	user := p.User
	c.setState(StatusAuthenticated, &user)
	c.invalidateSessionCache()
	return &user, nil
}

// SignIn authenticates with email and password. A 401 here means the
// credentials were wrong, never that a token was stale, so the gateway's
// refresh-and-retry path is bypassed.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	start := time.Now()
	var payload sessionPayload
	err := c.gw.Call(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/auth/signin",
		Body:        creds,
		NoAuthRetry: true,
	}, &payload)
	c.observeLatency(start)

	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			err = ErrInvalidCredentials
		}
		c.metricInc(MetricSignInFailure)
		c.emitAudit(ctx, auditEventSignInFailure, false, "", "", err, nil)
		return nil, err
	}

	user, err := c.adoptSession(payload)
	if err != nil {
		c.metricInc(MetricSignInFailure)
		c.emitAudit(ctx, auditEventSignInFailure, false, "", "", err, nil)
		return nil, err
	}

	c.metricInc(MetricSignInSuccess)
	c.emitAudit(ctx, auditEventSignInSuccess, true, "", "", nil, nil)
	return user, nil
}

// SignUp registers a new account. The identity service signs the new account
// in immediately, so the response carries a full session payload.
func (c *Client) SignUp(ctx context.Context, details SignUpDetails) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if details.Email == "" || details.Password == "" {
		return nil, errors.New("email and password required")
	}

	start := time.Now()
	var payload sessionPayload
	err := c.gw.Call(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/auth/signup",
		Body:        details,
		NoAuthRetry: true,
	}, &payload)
	c.observeLatency(start)

	if err != nil {
		if gateway.StatusCode(err) == http.StatusConflict {
			err = ErrAccountExists
		}
		c.metricInc(MetricSignUpFailure)
		c.emitAudit(ctx, auditEventSignUpFailure, false, "", "", err, nil)
		return nil, err
	}

	user, err := c.adoptSession(payload)
	if err != nil {
		c.metricInc(MetricSignUpFailure)
		c.emitAudit(ctx, auditEventSignUpFailure, false, "", "", err, nil)
		return nil, err
	}

	c.metricInc(MetricSignUpSuccess)
	c.emitAudit(ctx, auditEventSignUpSuccess, true, "", "", nil, nil)
	return user, nil
}

// SignOut ends the session fail-open: the server-side revocation is best
// effort, but local state always ends Anonymous with the store cleared. The
// epoch bump inside Invalidate guarantees a concurrent refresh cannot
// resurrect the pair.
func (c *Client) SignOut(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	userID := c.currentUserID()
	_ = c.gw.Call(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/signout",
	}, nil)

	if err := c.gw.Invalidate(); err != nil {
		// Local clear failed; state still flips so the UI is consistent,
		// and the error is surfaced for the caller to retry the wipe.
		c.setState(StatusAnonymous, nil)
		c.invalidateSessionCache()
		return fmt.Errorf("clear token store: %w", err)
	}

	c.setState(StatusAnonymous, nil)
	c.invalidateSessionCache()
	c.metricInc(MetricSignOut)
	c.emitAudit(ctx, auditEventSignOut, true, "", "", nil, func() map[string]string {
		if userID == "" {
			return nil
		}
		return map[string]string{"signed_out_user": userID}
	})
	return nil
}

// RefreshUser re-fetches the account record and publishes the fresh
// snapshot.
func (c *Client) RefreshUser(ctx context.Context) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	var user User
	if err := c.gw.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	c.setState(StatusAuthenticated, &user)
	return &user, nil
}

// UpdateUser applies a partial profile update. The local snapshot only
// changes after the server confirms; there is no optimistic write.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (*User, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}
	if update.FullName == nil && update.AvatarURL == nil {
		return c.currentUser(), nil
	}

	var user User
	err := c.gw.Call(ctx, gateway.Request{
		Method: http.MethodPatch,
		Path:   "/auth/me",
		Body:   update,
	}, &user)
	if err != nil {
		return nil, err
	}

	c.setState(StatusAuthenticated, &user)
	c.metricInc(MetricProfileUpdated)
	c.emitAudit(ctx, auditEventProfileUpdated, true, "", "", nil, nil)
	return &user, nil
}
