package goSession

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/goSession/gateway"
)

type sessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// Sessions lists the account's active sessions across devices. The list is
// cached until a revocation invalidates it or the session ends.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	if c == nil {
		return nil, ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	c.sessionMu.Lock()
	if c.sessionFresh {
		out := make([]Session, len(c.sessionCache))
		copy(out, c.sessionCache)
		c.sessionMu.Unlock()
		return out, nil
	}
	c.sessionMu.Unlock()

	// The fetch runs outside the cache lock: a refresh failure inside the
	// gateway invalidates the cache through the forced sign-out hook.
	var resp sessionsResponse
	if err := c.gw.Get(ctx, "/auth/sessions", &resp); err != nil {
		return nil, err
	}

	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.sessionCache = resp.Sessions
	c.sessionFresh = true

	out := make([]Session, len(resp.Sessions))
	copy(out, resp.Sessions)
	return out, nil
}

// RevokeSession terminates one session by ID. Revoking a session that is
// already gone succeeds; revocation is idempotent.
func (c *Client) RevokeSession(ctx context.Context, sessionID string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return err
	}
	if sessionID == "" {
		return errors.New("session id required")
	}

	err := c.gw.Delete(ctx, "/auth/sessions/"+sessionID)
	if err != nil && gateway.StatusCode(err) != http.StatusNotFound {
		return err
	}

	c.invalidateSessionCache()
	c.metricInc(MetricSessionRevoked)
	c.emitAudit(ctx, auditEventSessionRevoked, true, "", sessionID, nil, nil)
	return nil
}

// RevokeOtherSessions terminates every session except the current one.
func (c *Client) RevokeOtherSessions(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}
	if err := c.requireAuthenticated(); err != nil {
		return err
	}

	if err := c.gw.Delete(ctx, "/auth/sessions"); err != nil {
		return err
	}

	c.invalidateSessionCache()
	c.metricInc(MetricSessionsRevokedAll)
	c.emitAudit(ctx, auditEventSessionsRevokedAll, true, "", "", nil, nil)
	return nil
}

func (c *Client) invalidateSessionCache() {
	c.sessionMu.Lock()
	c.sessionCache = nil
	c.sessionFresh = false
	c.sessionMu.Unlock()
}
