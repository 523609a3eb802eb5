package middleware

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/cqbus"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Rate is the sustained number of executions per second per key (default: 10)
	Rate float64

	// Burst is the bucket capacity per key (default: Rate rounded up, at least 1)
	Burst int

	// KeyExtractor defines the bucket key (default: identity name)
	KeyExtractor func(ctx context.Context, req any, ec *cqbus.ExecutionContext) string

	// Wait blocks until a token is available instead of failing (default: false)
	Wait bool

	// IdleTimeout is how long a key may stay unused before its bucket is dropped (default: 1h)
	IdleTimeout time.Duration

	// CleanupInterval is the minimum time between sweeps for idle buckets (default: 5m)
	CleanupInterval time.Duration
}

// RateLimiterStats reports bucket bookkeeping of a RateLimiter.
type RateLimiterStats struct {
	BucketsCreated int64 // Total number of buckets created
	BucketsRemoved int64 // Total number of idle buckets removed
	ActiveBuckets  int   // Current number of buckets
}

// RateLimiter is a rate limiting middleware keeping one token bucket per key.
// Buckets unused for IdleTimeout are removed by a sweep that runs during
// executions at most once per CleanupInterval, so no background goroutine
// is needed.
type RateLimiter struct {
	cfg   RateLimitConfig
	limit rate.Limit

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time

	bucketsCreated atomic.Int64
	bucketsRemoved atomic.Int64
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimit creates a rate limiting middleware allowing rps executions per
// second per caller identity, with a burst of the same size.
func RateLimit(rps float64) cqbus.Middleware {
	return RateLimitWithConfig(RateLimitConfig{Rate: rps})
}

// RateLimitWithConfig creates a rate limiting middleware with custom configuration.
// See NewRateLimiter.
func RateLimitWithConfig(cfg RateLimitConfig) cqbus.Middleware {
	return NewRateLimiter(cfg)
}

// NewRateLimiter creates a rate limiter with custom configuration.
// Each key gets its own token bucket. Rejected executions fail with
// ErrRateLimited; with Wait set, the execution blocks until a token is
// available or ctx is done.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}

	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.Rate+0.999))
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(_ context.Context, _ any, ec *cqbus.ExecutionContext) string {
			return ec.Identity().Name()
		}
	}

	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = time.Hour
	}

	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	return &RateLimiter{
		cfg:       cfg,
		limit:     rate.Limit(cfg.Rate),
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// Exec implements cqbus.Middleware.
func (rl *RateLimiter) Exec(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
	if rl.cfg.Skip != nil && rl.cfg.Skip(ctx, req) {
		return next(ctx, req)
	}

	key := rl.cfg.KeyExtractor(ctx, req, ec)
	limiter := rl.get(key)

	if rl.cfg.Wait {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRateLimited, key, err)
		}
		return next(ctx, req)
	}

	if !limiter.Allow() {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, key)
	}

	return next(ctx, req)
}

// Stats returns current bucket statistics. Safe for concurrent use.
func (rl *RateLimiter) Stats() RateLimiterStats {
	rl.mu.Lock()
	active := len(rl.buckets)
	rl.mu.Unlock()

	return RateLimiterStats{
		BucketsCreated: rl.bucketsCreated.Load(),
		BucketsRemoved: rl.bucketsRemoved.Load(),
		ActiveBuckets:  active,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.cfg.CleanupInterval {
		rl.removeStale(now)
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.cfg.Burst)}
		rl.buckets[key] = b
		rl.bucketsCreated.Add(1)
	}
	b.lastAccess = now
	return b.limiter
}

// removeStale drops buckets idle for longer than IdleTimeout. Caller holds rl.mu.
func (rl *RateLimiter) removeStale(now time.Time) {
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastAccess) > rl.cfg.IdleTimeout {
			delete(rl.buckets, key)
			removed++
		}
	}

	rl.lastSweep = now
	if removed > 0 {
		rl.bucketsRemoved.Add(int64(removed))
	}
}
