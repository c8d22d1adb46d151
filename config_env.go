package goSession

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides mirrors the tunable Config fields. Pointer fields stay nil
// when the variable is unset so defaults survive untouched.
type envOverrides struct {
	BaseURL           *string        `env:"GOSESSION_API_BASE_URL"`
	RequestTimeout    *time.Duration `env:"GOSESSION_API_REQUEST_TIMEOUT"`
	RefreshTimeout    *time.Duration `env:"GOSESSION_API_REFRESH_TIMEOUT"`
	PreemptiveRefresh *bool          `env:"GOSESSION_API_PREEMPTIVE_REFRESH"`
	ExpiryLeeway      *time.Duration `env:"GOSESSION_API_EXPIRY_LEEWAY"`

	OAuthPollInterval *time.Duration `env:"GOSESSION_OAUTH_POLL_INTERVAL"`
	OAuthFlowTimeout  *time.Duration `env:"GOSESSION_OAUTH_FLOW_TIMEOUT"`
	OAuthNonceTTL     *time.Duration `env:"GOSESSION_OAUTH_NONCE_TTL"`

	RedisPrefix *string `env:"GOSESSION_REDIS_PREFIX"`

	AuditEnabled    *bool `env:"GOSESSION_AUDIT_ENABLED"`
	AuditBufferSize *int  `env:"GOSESSION_AUDIT_BUFFER_SIZE"`
	AuditDropIfFull *bool `env:"GOSESSION_AUDIT_DROP_IF_FULL"`

	MetricsEnabled    *bool `env:"GOSESSION_METRICS_ENABLED"`
	LatencyHistograms *bool `env:"GOSESSION_METRICS_LATENCY_HISTOGRAMS"`
}

// ConfigFromEnv returns the default configuration with GOSESSION_* overrides
// applied. The result is not validated; [Builder.Build] validates.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if o.BaseURL != nil {
		cfg.API.BaseURL = *o.BaseURL
	}
	if o.RequestTimeout != nil {
		cfg.API.RequestTimeout = *o.RequestTimeout
	}
	if o.RefreshTimeout != nil {
		cfg.API.RefreshTimeout = *o.RefreshTimeout
	}
	if o.PreemptiveRefresh != nil {
		cfg.API.PreemptiveRefresh = *o.PreemptiveRefresh
	}
	if o.ExpiryLeeway != nil {
		cfg.API.ExpiryLeeway = *o.ExpiryLeeway
	}
	if o.OAuthPollInterval != nil {
		cfg.OAuth.PollInterval = *o.OAuthPollInterval
	}
	if o.OAuthFlowTimeout != nil {
		cfg.OAuth.FlowTimeout = *o.OAuthFlowTimeout
	}
	if o.OAuthNonceTTL != nil {
		cfg.OAuth.NonceTTL = *o.OAuthNonceTTL
	}
	if o.RedisPrefix != nil {
		cfg.Storage.RedisPrefix = *o.RedisPrefix
	}
	if o.AuditEnabled != nil {
		cfg.Audit.Enabled = *o.AuditEnabled
	}
	if o.AuditBufferSize != nil {
		cfg.Audit.BufferSize = *o.AuditBufferSize
	}
	if o.AuditDropIfFull != nil {
		cfg.Audit.DropIfFull = *o.AuditDropIfFull
	}
	if o.MetricsEnabled != nil {
		cfg.Metrics.Enabled = *o.MetricsEnabled
	}
	if o.LatencyHistograms != nil {
		cfg.Metrics.EnableLatencyHistograms = *o.LatencyHistograms
	}

	return cfg, nil
}
