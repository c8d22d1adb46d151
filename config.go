package goSession

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	OAuth   OAuthConfig
	Storage StorageConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by goSession APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration

	// PreemptiveRefresh refreshes before sending when the stored access
	// token is already past its exp claim. The reactive 401 path remains
	// the contract either way.
	PreemptiveRefresh bool
	ExpiryLeeway      time.Duration
}

/*
====================================
OAUTH CONFIG
====================================
*/

// OAuthConfig defines a public type used by goSession APIs.
//
// OAuthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OAuthConfig struct {
	PollInterval time.Duration
	FlowTimeout  time.Duration
	NonceTTL     time.Duration
}

// StorageConfig defines a public type used by goSession APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	RedisPrefix string
}

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			RequestTimeout:    15 * time.Second,
			RefreshTimeout:    30 * time.Second,
			PreemptiveRefresh: false,
			ExpiryLeeway:      10 * time.Second,
		},
		OAuth: OAuthConfig{
			PollInterval: time.Second,
			FlowTimeout:  5 * time.Minute,
			NonceTTL:     10 * time.Minute,
		},
		Storage: StorageConfig{
			RedisPrefix: "gs",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation fails.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// API
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("API RequestTimeout must be > 0")
	}
	if c.API.RefreshTimeout <= 0 {
		return errors.New("API RefreshTimeout must be > 0")
	}
	if c.API.ExpiryLeeway < 0 {
		return errors.New("API ExpiryLeeway must be >= 0")
	}

	// OAuth
	if c.OAuth.PollInterval <= 0 {
		return errors.New("OAuth PollInterval must be > 0")
	}
	if c.OAuth.FlowTimeout <= 0 {
		return errors.New("OAuth FlowTimeout must be > 0")
	}
	if c.OAuth.FlowTimeout <= c.OAuth.PollInterval {
		return errors.New("OAuth FlowTimeout must exceed PollInterval")
	}
	if c.OAuth.NonceTTL <= 0 {
		return errors.New("OAuth NonceTTL must be > 0")
	}

	// Storage
	if c.Storage.RedisPrefix == "" {
		return errors.New("Storage RedisPrefix is required")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
