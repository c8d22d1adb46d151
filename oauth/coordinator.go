package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStateMismatch is an exported constant or variable used by the session client.
	ErrStateMismatch = errors.New("oauth state mismatch")
	// ErrPopupBlocked is an exported constant or variable used by the session client.
	ErrPopupBlocked = errors.New("oauth popup blocked")
	// ErrFlowTimeout is an exported constant or variable used by the session client.
	ErrFlowTimeout = errors.New("oauth flow timed out")
)

const (
	defaultPollInterval = time.Second
	defaultFlowTimeout  = 5 * time.Minute
)

// Popup is one opened authorization window.
type Popup interface {
	Closed() bool
	Close()
}

// Launcher opens popup windows. An Open error means the environment blocked
// the popup; the flow fails immediately without retry.
type Launcher interface {
	Open(url string) (Popup, error)
}

// CallbackParams are the code/state query parameters delivered to the
// current page when the provider redirects back.
type CallbackParams struct {
	Code  string
	State string
}

// CallbackReader exposes the current page's OAuth callback parameters.
// Strip removes them so a reload or back-navigation cannot replay the pair.
type CallbackReader interface {
	Read() (CallbackParams, bool)
	Strip()
}

// Coordinator defines a public type used by goSession APIs.
//
// Coordinator instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Coordinator struct {
	nonces       NonceStore
	launcher     Launcher
	reader       CallbackReader
	pollInterval time.Duration
	flowTimeout  time.Duration
}

// NewCoordinator describes the newcoordinator operation and its observable behavior.
//
// NewCoordinator may return an error when input validation fails.
// NewCoordinator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCoordinator(nonces NonceStore, launcher Launcher, reader CallbackReader, pollInterval, flowTimeout time.Duration) (*Coordinator, error) {
	if nonces == nil {
		return nil, errors.New("nonce store required")
	}
	if launcher == nil {
		return nil, errors.New("popup launcher required")
	}
	if reader == nil {
		return nil, errors.New("callback reader required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if flowTimeout <= 0 {
		flowTimeout = defaultFlowTimeout
	}
	return &Coordinator{
		nonces:       nonces,
		launcher:     launcher,
		reader:       reader,
		pollInterval: pollInterval,
		flowTimeout:  flowTimeout,
	}, nil
}

// Run executes one popup sign-in attempt: persist the nonce, open the popup
// at authorizeURL, wait for closure, and verify the callback state. It
// returns the authorization code to exchange, or "" with a nil error when
// the user abandoned the flow. The nonce is deleted and callback parameters
// are stripped on every outcome.
func (c *Coordinator) Run(ctx context.Context, provider, authorizeURL, state string) (string, error) {
	if provider == "" || authorizeURL == "" || state == "" {
		return "", errors.New("provider, authorize url, and state required")
	}

	if err := c.nonces.Save(ctx, provider, state); err != nil {
		return "", fmt.Errorf("persist nonce: %w", err)
	}

	popup, err := c.launcher.Open(authorizeURL)
	if err != nil {
		_, _ = c.nonces.Consume(ctx, provider)
		return "", fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	if err := c.awaitClosure(ctx, popup); err != nil {
		_, _ = c.nonces.Consume(ctx, provider)
		c.reader.Strip()
		return "", err
	}

	defer c.reader.Strip()

	params, ok := c.reader.Read()
	if !ok {
		// Popup closed without delivering a callback: the user cancelled.
		_, _ = c.nonces.Consume(ctx, provider)
		return "", nil
	}

	// Single-use: the nonce is consumed before the comparison and never
	// restored, whatever the outcome.
	stored, err := c.nonces.Consume(ctx, provider)
	if err != nil {
		return "", ErrStateMismatch
	}
	if !VerifyState(stored, params.State) {
		return "", ErrStateMismatch
	}
	return params.Code, nil
}

func (c *Coordinator) awaitClosure(ctx context.Context, popup Popup) error {
	if popup.Closed() {
		return nil
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(c.flowTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ticker.C:
			if popup.Closed() {
				return nil
			}
		case <-deadline.C:
			popup.Close()
			return ErrFlowTimeout
		case <-ctx.Done():
			popup.Close()
			return ctx.Err()
		}
	}
}
