package goSession

import "time"

// Report is a read-only snapshot of the client's configuration posture,
// returned by [Client.Report].
type Report struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RefreshTimeout    time.Duration
	PreemptiveRefresh bool
	ExpiryLeeway      time.Duration

	OAuthFlowTimeout  time.Duration
	OAuthPollInterval time.Duration
	OAuthNonceTTL     time.Duration
	PopupConfigured   bool

	AuditEnabled   bool
	AuditDropped   uint64
	MetricsEnabled bool

	Status        AuthStatus
	Initialized   bool
	Authenticated bool
}

// Report describes the report operation and its observable behavior.
//
// Report does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Report() Report {
	state := c.State()

	return Report{
		BaseURL:           c.cfg.API.BaseURL,
		RequestTimeout:    c.cfg.API.RequestTimeout,
		RefreshTimeout:    c.cfg.API.RefreshTimeout,
		PreemptiveRefresh: c.cfg.API.PreemptiveRefresh,
		ExpiryLeeway:      c.cfg.API.ExpiryLeeway,

		OAuthFlowTimeout:  c.cfg.OAuth.FlowTimeout,
		OAuthPollInterval: c.cfg.OAuth.PollInterval,
		OAuthNonceTTL:     c.cfg.OAuth.NonceTTL,
		PopupConfigured:   c.flow != nil,

		AuditEnabled:   c.cfg.Audit.Enabled,
		AuditDropped:   c.audit.Dropped(),
		MetricsEnabled: c.cfg.Metrics.Enabled,

		Status:        state.Status,
		Initialized:   c.initialized.Load(),
		Authenticated: state.IsAuthenticated(),
	}
}
