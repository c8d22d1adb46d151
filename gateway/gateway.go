package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/MrEthical07/goSession/token"
)

const (
	defaultRefreshPath    = "/auth/refresh"
	defaultRefreshTimeout = 30 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultExpiryLeeway   = 10 * time.Second

	maxResponseBody = 1 << 20
)

// Hooks receives gateway lifecycle notifications. All fields are optional
// and must not block.
type Hooks struct {
	OnRefreshSuccess func()
	OnRefreshShared  func()
	OnForcedSignOut  func()
	OnRateLimited    func()
}

// Options defines a public type used by goSession APIs.
//
// Options instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      token.Store

	RefreshPath    string
	RefreshTimeout time.Duration

	// PreemptiveRefresh refreshes before sending when the stored access
	// token is already past its exp claim. Off by default; the reactive
	// 401 path is the contract either way.
	PreemptiveRefresh bool
	ExpiryLeeway      time.Duration

	Hooks Hooks
}

// Gateway defines a public type used by goSession APIs.
//
// Gateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Gateway struct {
	base           *url.URL
	client         *http.Client
	store          token.Store
	refreshPath    string
	refreshTimeout time.Duration
	preemptive     bool
	leeway         time.Duration
	hooks          Hooks

	group singleflight.Group

	// epoch is the token store generation. It advances on sign-out and on
	// refresh failure; a refresh result is only written back while the
	// epoch it started under is still current.
	epoch atomic.Uint64
	mu    sync.Mutex
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation fails.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(opts Options) (*Gateway, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("gateway base url required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("gateway base url must be absolute")
	}
	if opts.Store == nil {
		return nil, errors.New("gateway token store required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	refreshPath := opts.RefreshPath
	if refreshPath == "" {
		refreshPath = defaultRefreshPath
	}
	refreshTimeout := opts.RefreshTimeout
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	leeway := opts.ExpiryLeeway
	if leeway <= 0 {
		leeway = defaultExpiryLeeway
	}

	return &Gateway{
		base:           base,
		client:         client,
		store:          opts.Store,
		refreshPath:    refreshPath,
		refreshTimeout: refreshTimeout,
		preemptive:     opts.PreemptiveRefresh,
		leeway:         leeway,
		hooks:          opts.Hooks,
	}, nil
}

// Request describes one identity-service call. Body is re-marshaled on each
// attempt, so a refresh retry never replays a consumed reader.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// NoAuthRetry marks credential-presenting endpoints (sign-in, sign-up)
	// where a 401 means "wrong credentials", not "stale access token".
	NoAuthRetry bool
}

// Call describes the call operation and its observable behavior.
//
// Call may return an error when input validation, dependency calls, or security checks fail.
// Call does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gateway) Call(ctx context.Context, req Request, out any) error {
	if g == nil {
		return errors.New("gateway not initialized")
	}

	// attempt is the explicit retry-once counter: 0 = first send,
	// 1 = the single post-refresh retry.
	for attempt := 0; ; attempt++ {
		if attempt == 0 && g.preemptive && !req.NoAuthRetry {
			if pair, err := g.store.Get(); err == nil && token.AccessExpired(pair.AccessToken, g.leeway) {
				// Best effort; a failure here falls through to the
				// reactive path below.
				_ = g.refreshShared(ctx)
			}
		}

		httpReq, err := g.buildRequest(ctx, req)
		if err != nil {
			return err
		}

		resp, err := g.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		_ = resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("%w: read response: %v", ErrNetwork, readErr)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			if req.NoAuthRetry || attempt >= 1 {
				return fmt.Errorf("%w: %s", ErrUnauthorized, apiMessage(body))
			}
			if err := g.refreshShared(ctx); err != nil {
				return err
			}
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			if g.hooks.OnRateLimited != nil {
				g.hooks.OnRateLimited()
			}
			return fmt.Errorf("%w: %s", ErrRateLimited, apiMessage(body))

		case resp.StatusCode >= 400:
			return decodeAPIError(resp.StatusCode, body)

		default:
			if out == nil || len(body) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
	}
}

// Get describes the get operation and its observable behavior.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Call(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Post describes the post operation and its observable behavior.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Delete describes the delete operation and its observable behavior.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.Call(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// Invalidate terminates the current token epoch: the epoch advances and the
// store is cleared under the same lock, so a refresh that started earlier can
// no longer write its pair back. Sign-out is terminal.
func (g *Gateway) Invalidate() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch.Add(1)
	return g.store.Clear()
}

func (g *Gateway) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := g.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if pair, err := g.store.Get(); err == nil {
		httpReq.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}
	return httpReq, nil
}

// refreshShared joins the single in-flight refresh for the current token
// epoch, starting one when none is running.
func (g *Gateway) refreshShared(ctx context.Context) error {
	pair, err := g.store.Get()
	if err != nil {
		// Anonymous caller; the refresh endpoint is never contacted.
		return fmt.Errorf("%w: no stored credential", ErrUnauthorized)
	}

	epoch := g.epoch.Load()
	ch := g.group.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		return nil, g.runRefresh(epoch, pair.RefreshToken)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		if res.Shared && g.hooks.OnRefreshShared != nil {
			g.hooks.OnRefreshShared()
		}
		return nil
	case <-ctx.Done():
		// The shared refresh keeps running for the other waiters.
		return ctx.Err()
	}
}

func (g *Gateway) runRefresh(epoch uint64, refreshToken string) error {
	// Detached context with its own deadline: one waiter cancelling must
	// not fail the refresh for everyone else, and an abandoned refresh
	// must not hang forever.
	ctx, cancel := context.WithTimeout(context.Background(), g.refreshTimeout)
	defer cancel()

	newPair, err := g.refreshCall(ctx, refreshToken)
	if err != nil {
		g.failRefresh(epoch)
		return fmt.Errorf("%w: refresh rejected", ErrUnauthorized)
	}

	g.mu.Lock()
	current := g.epoch.Load() == epoch
	if current {
		err = g.store.Set(newPair)
	}
	g.mu.Unlock()

	if !current {
		// A sign-out landed while the refresh was in flight; the new
		// pair is discarded and the caller fails authentication.
		return fmt.Errorf("%w: session terminated during refresh", ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("store refreshed pair: %w", err)
	}
	if g.hooks.OnRefreshSuccess != nil {
		g.hooks.OnRefreshSuccess()
	}
	return nil
}

func (g *Gateway) failRefresh(epoch uint64) {
	g.mu.Lock()
	forced := g.epoch.Load() == epoch
	if forced {
		g.epoch.Add(1)
		_ = g.store.Clear()
	}
	g.mu.Unlock()

	if forced && g.hooks.OnForcedSignOut != nil {
		g.hooks.OnForcedSignOut()
	}
}

func (g *Gateway) refreshCall(ctx context.Context, refreshToken string) (token.Pair, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return token.Pair{}, err
	}

	target := g.base.JoinPath(g.refreshPath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return token.Pair{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return token.Pair{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()
	if readErr != nil {
		return token.Pair{}, fmt.Errorf("%w: read refresh response: %v", ErrNetwork, readErr)
	}
	if resp.StatusCode >= 400 {
		return token.Pair{}, fmt.Errorf("refresh status %d: %s", resp.StatusCode, apiMessage(body))
	}

	var pair token.Pair
	if err := json.Unmarshal(body, &pair); err != nil {
		return token.Pair{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if !pair.Valid() {
		return token.Pair{}, errors.New("refresh returned partial pair")
	}
	return pair, nil
}

type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func apiMessage(body []byte) string {
	var decoded apiErrorBody
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Message != "" {
			return decoded.Message
		}
		if decoded.Error != "" {
			return decoded.Error
		}
	}
	return "request rejected"
}

func decodeAPIError(status int, body []byte) error {
	var decoded apiErrorBody
	_ = json.Unmarshal(body, &decoded)

	message := decoded.Message
	if message == "" {
		message = decoded.Error
	}
	return &APIError{Status: status, Code: decoded.Code, Message: message}
}
