package goSession

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/oauth"
	"github.com/MrEthical07/goSession/token"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	httpClient *http.Client
	store      token.Store
	nonces     oauth.NonceStore
	launcher   oauth.Launcher
	reader     oauth.CallbackReader
	notifier   Notifier
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithTokenStore describes the withtokenstore operation and its observable behavior.
func (b *Builder) WithTokenStore(store token.Store) *Builder {
	b.store = store
	return b
}

// WithRedis derives both the token store and the OAuth nonce store from the
// given client, unless explicit stores were also supplied.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithNonceStore describes the withnoncestore operation and its observable behavior.
func (b *Builder) WithNonceStore(store oauth.NonceStore) *Builder {
	b.nonces = store
	return b
}

// WithPopupLauncher wires the environment's popup capability. Both pieces
// are required for interactive OAuth; headless callers may skip this and use
// [Client.SignInWithOAuth] directly.
func (b *Builder) WithPopupLauncher(launcher oauth.Launcher, reader oauth.CallbackReader) *Builder {
	b.launcher = launcher
	b.reader = reader
	return b
}

// WithNotifier describes the withnotifier operation and its observable behavior.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation fails.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if (b.launcher == nil) != (b.reader == nil) {
		return nil, errors.New("popup launcher and callback reader must be configured together")
	}

	// -------- TOKEN STORE --------
	store := b.store
	if store == nil {
		if b.redis != nil {
			rs, err := token.NewRedisStore(b.redis, cfg.Storage.RedisPrefix)
			if err != nil {
				return nil, err
			}
			store = rs
		} else {
			store = token.NewMemoryStore()
		}
	}

	// -------- NONCE STORE --------
	nonces := b.nonces
	if nonces == nil {
		if b.redis != nil {
			ns, err := oauth.NewRedisNonceStore(b.redis, cfg.Storage.RedisPrefix, cfg.OAuth.NonceTTL)
			if err != nil {
				return nil, err
			}
			nonces = ns
		} else {
			nonces = oauth.NewMemoryNonceStore(cfg.OAuth.NonceTTL)
		}
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.RequestTimeout}
	}

	client := &Client{
		cfg:      cfg,
		store:    store,
		nonces:   nonces,
		notifier: b.notifier,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
		subs:     make(map[int]chan AuthState),
		state:    AuthState{Status: StatusUninitialized},
	}

	// -------- GATEWAY --------
	gw, err := gateway.New(gateway.Options{
		BaseURL:           cfg.API.BaseURL,
		HTTPClient:        httpClient,
		Store:             store,
		RefreshTimeout:    cfg.API.RefreshTimeout,
		PreemptiveRefresh: cfg.API.PreemptiveRefresh,
		ExpiryLeeway:      cfg.API.ExpiryLeeway,
		Hooks: gateway.Hooks{
			OnRefreshSuccess: func() { client.metricInc(MetricRefreshSuccess) },
			OnRefreshShared:  func() { client.metricInc(MetricRefreshShared) },
			OnForcedSignOut:  client.handleForcedSignOut,
			OnRateLimited:    client.handleRateLimited,
		},
	})
	if err != nil {
		return nil, err
	}
	client.gw = gw

	// -------- OAUTH COORDINATOR --------
	if b.launcher != nil {
		flow, err := oauth.NewCoordinator(nonces, b.launcher, b.reader, cfg.OAuth.PollInterval, cfg.OAuth.FlowTimeout)
		if err != nil {
			return nil, err
		}
		client.flow = flow
	}

	b.built = true

	return client, nil
}
