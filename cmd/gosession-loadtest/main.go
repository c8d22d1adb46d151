package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/token"
)

func main() {
	var (
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations for the call phase")
		storms      = flag.Int("storms", 50, "number of refresh storms (token expired under concurrent load)")
		stormWidth  = flag.Int("storm-width", 128, "concurrent calls per storm")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs", "token key prefix")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 || *storms <= 0 || *stormWidth <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency, ops, storms, and storm-width must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	identity := newIdentityStub()
	srv := httptest.NewServer(identity.routes())
	defer srv.Close()

	store, err := token.NewRedisStore(client, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token store: %v\n", err)
		os.Exit(1)
	}
	if err := store.Set(identity.issuePair()); err != nil {
		fmt.Fprintf(os.Stderr, "seed token store: %v\n", err)
		os.Exit(1)
	}

	gw, err := gateway.New(gateway.Options{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Store:      store,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}

	callStats := runCallPhase(ctx, gw, *ops, *concurrency)
	stormStats, refreshes := runStormPhase(ctx, gw, identity, *storms, *stormWidth)

	fmt.Println("---- results ----")
	printStats("call", callStats)
	printStats("storm", stormStats)
	fmt.Printf("storm refreshes: %d across %d storms (%.2f per storm; 1.00 is perfect dedup)\n",
		refreshes, *storms, float64(refreshes)/float64(*storms))
}

// runCallPhase hammers an authenticated endpoint with a valid access token,
// measuring the happy path where no refresh is involved.
func runCallPhase(ctx context.Context, gw *gateway.Gateway, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				var out struct {
					ID string `json:"id"`
				}
				t0 := time.Now()
				err := gw.Get(ctx, "/auth/me", &out)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runStormPhase expires the access token server-side, then fires a burst of
// concurrent calls. Every call in the burst 401s and wants a refresh; the
// single-flight group should collapse each burst to one refresh request.
func runStormPhase(ctx context.Context, gw *gateway.Gateway, identity *identityStub, storms, width int) (phaseStats, int64) {
	var (
		failures  int64
		latencies = make([]time.Duration, 0, storms*width)
		mu        sync.Mutex
	)

	start := time.Now()
	for s := 0; s < storms; s++ {
		identity.expireAll()

		var wg sync.WaitGroup
		for w := 0; w < width; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var out struct {
					ID string `json:"id"`
				}
				t0 := time.Now()
				err := gw.Get(ctx, "/auth/me", &out)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}()
		}
		wg.Wait()
	}
	total := time.Since(start)
	return computeStats(total, latencies, failures), identity.refreshCount()
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// identityStub is a minimal in-process identity service: bearer-gated
// /auth/me and a refresh endpoint that rotates the pair.
type identityStub struct {
	mu        sync.Mutex
	nextToken int
	valid     map[string]bool
	refreshes int64
}

func newIdentityStub() *identityStub {
	return &identityStub{
		valid: make(map[string]bool),
	}
}

func (s *identityStub) issuePair() token.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issuePairLocked()
}

func (s *identityStub) issuePairLocked() token.Pair {
	s.nextToken++
	pair := token.Pair{
		AccessToken:  fmt.Sprintf("lt-access-%d", s.nextToken),
		RefreshToken: fmt.Sprintf("lt-refresh-%d", s.nextToken),
	}
	s.valid[pair.AccessToken] = true
	return pair
}

func (s *identityStub) expireAll() {
	s.mu.Lock()
	s.valid = make(map[string]bool)
	s.mu.Unlock()
}

func (s *identityStub) refreshCount() int64 {
	return atomic.LoadInt64(&s.refreshes)
}

func (s *identityStub) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		const pfx = "Bearer "
		h := r.Header.Get("Authorization")

		s.mu.Lock()
		ok := len(h) > len(pfx) && s.valid[h[len(pfx):]]
		s.mu.Unlock()

		if !ok {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "load-user"})
	})

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
			http.Error(w, `{"message":"refresh rejected"}`, http.StatusUnauthorized)
			return
		}

		atomic.AddInt64(&s.refreshes, 1)

		s.mu.Lock()
		pair := s.issuePairLocked()
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pair)
	})

	return mux
}
