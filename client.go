package goSession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/oauth"
	"github.com/MrEthical07/goSession/token"
	"github.com/MrEthical07/goSession/twofactor"
)

// Client is the session lifecycle engine. It owns the token store, the
// authenticated gateway, the reactive auth state, and the OAuth/two-factor
// workflows. All methods are safe for concurrent use after [Builder.Build].
type Client struct {
	cfg      Config
	gw       *gateway.Gateway
	store    token.Store
	flow     *oauth.Coordinator
	nonces   oauth.NonceStore
	notifier Notifier
	audit    *auditDispatcher
	metrics  *Metrics

	stateMu sync.RWMutex
	state   AuthState
	subs    map[int]chan AuthState
	nextSub int

	initialized atomic.Bool

	enrollMu   sync.Mutex
	enrollment *twofactor.Enrollment

	sessionMu    sync.Mutex
	sessionCache []Session
	sessionFresh bool
}

// State returns the current session snapshot.
func (c *Client) State() AuthState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsInitialized reports whether the first bootstrap has resolved. It flips
// to true exactly once and never back.
func (c *Client) IsInitialized() bool {
	return c.initialized.Load()
}

// Subscribe registers a state listener. Every transition is delivered as a
// full snapshot; a slow listener misses intermediate snapshots rather than
// blocking the client. The returned cancel func releases the channel.
func (c *Client) Subscribe() (<-chan AuthState, func()) {
	ch := make(chan AuthState, 1)

	c.stateMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.stateMu.Unlock()

	cancel := func() {
		c.stateMu.Lock()
		delete(c.subs, id)
		c.stateMu.Unlock()
	}
	return ch, cancel
}

// setState publishes a new snapshot and fans it out to subscribers. A
// subscriber whose buffer is full has its stale snapshot replaced by the
// newest one.
func (c *Client) setState(status AuthStatus, user *User) {
	c.stateMu.Lock()
	c.state = AuthState{
		Status:      status,
		User:        user,
		Initialized: c.initialized.Load(),
	}
	snapshot := c.state
	for _, ch := range c.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
	c.stateMu.Unlock()
}

func (c *Client) currentUserID() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if c.state.User == nil {
		return ""
	}
	return c.state.User.ID
}

func (c *Client) currentUser() *User {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state.User
}

func (c *Client) requireAuthenticated() error {
	if c.State().Status != StatusAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}

func (c *Client) notify(kind NotificationKind, message string) {
	if c.notifier != nil {
		c.notifier.Notify(kind, message)
	}
}

func (c *Client) metricInc(id MetricID) {
	c.metrics.Inc(id)
}

func (c *Client) observeLatency(start time.Time) {
	c.metrics.Observe(MetricRequestLatency, time.Since(start))
}

// Initialize resolves the bootstrap question once: is there a resumable
// session? With no stored pair it settles Anonymous without any network
// traffic; with a pair it asks the identity service, letting the gateway's
// refresh-and-retry path recover from a stale access token. Subsequent calls
// return the settled state without re-running bootstrap.
func (c *Client) Initialize(ctx context.Context) (AuthState, error) {
	if c == nil {
		return AuthState{}, ErrClientNotReady
	}
	if c.initialized.Load() {
		return c.State(), nil
	}

	c.setState(StatusLoading, nil)
	start := time.Now()

	if _, err := c.store.Get(); err != nil {
		// Anonymous start. The refresh endpoint is never contacted.
		c.settleBootstrap(ctx, StatusAnonymous, nil, nil)
		return c.State(), nil
	}

	var user User
	err := c.gw.Get(ctx, "/auth/me", &user)
	c.observeLatency(start)

	switch {
	case err == nil:
		c.settleBootstrap(ctx, StatusAuthenticated, &user, nil)
		return c.State(), nil

	case errors.Is(err, gateway.ErrUnauthorized):
		// The stored pair could not be revived; the gateway already
		// cleared it.
		c.settleBootstrap(ctx, StatusAnonymous, nil, nil)
		return c.State(), nil

	default:
		// Service unreachable. Bootstrap still resolves (to Anonymous) so
		// the application is never stuck in Loading, but the stored pair
		// is kept for the next attempt and the failure is reported.
		c.settleBootstrap(ctx, StatusAnonymous, nil, err)
		return c.State(), err
	}
}

func (c *Client) settleBootstrap(ctx context.Context, status AuthStatus, user *User, cause error) {
	c.initialized.Store(true)
	c.setState(status, user)

	if status == StatusAuthenticated {
		c.metricInc(MetricBootstrapAuthenticated)
	} else {
		c.metricInc(MetricBootstrapAnonymous)
	}
	c.emitAudit(ctx, auditEventBootstrapResolved, cause == nil, "", "", cause, func() map[string]string {
		return map[string]string{"status": status.String()}
	})
}

// handleForcedSignOut is wired into the gateway's refresh-failure hook. The
// failure surfaces through state and the notifier, never as an error from an
// unrelated call site.
func (c *Client) handleForcedSignOut() {
	c.setState(StatusAnonymous, nil)
	c.invalidateSessionCache()
	c.metricInc(MetricForcedSignOut)
	c.emitAudit(context.Background(), auditEventForcedSignOut, false, "", "", ErrUnauthorized, nil)
	c.notify(NotifyWarning, "your session has expired, please sign in again")
}

func (c *Client) handleRateLimited() {
	c.metricInc(MetricRateLimited)
	c.emitAudit(context.Background(), auditEventRateLimited, false, "", "", ErrRateLimited, nil)
	c.notify(NotifyWarning, "too many requests, slow down")
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (c *Client) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Close drains and stops the audit dispatcher. The client must not be used
// after Close.
func (c *Client) Close() {
	c.audit.Close()
}
