package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/cqbus"
)

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Timeout bounds each execution (default: 30s)
	Timeout time.Duration

	// Timeouts overrides Timeout per request type name, as returned by cqbus.RequestName
	Timeouts map[string]time.Duration
}

// Timeout creates a middleware that gives the rest of the chain at most d.
func Timeout(d time.Duration) cqbus.Middleware {
	return TimeoutWithConfig(TimeoutConfig{Timeout: d})
}

// TimeoutWithConfig creates a timeout middleware with custom configuration.
// The deadline is applied to the context.Context passed to next. Handlers are
// expected to honour it; the middleware does not abandon a running handler.
// When the chain fails after the deadline has passed, the error is wrapped
// with ctx.Err() so errors.Is matches both the deadline and the original error.
func TimeoutWithConfig(cfg TimeoutConfig) cqbus.Middleware {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, _ *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		d := cfg.Timeout
		if override, ok := cfg.Timeouts[cqbus.RequestName(req)]; ok && override > 0 {
			d = override
		}

		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		result, err := next(ctx, req)
		if err == nil || ctx.Err() == nil || errors.Is(err, ctx.Err()) {
			return result, err
		}
		return nil, fmt.Errorf("%w: %w", ctx.Err(), err)
	})
}
