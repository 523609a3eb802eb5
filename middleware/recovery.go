package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/logger"
)

// RecoveryConfig configures the panic recovery middleware.
type RecoveryConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Logger receives a record with the panic value and stack (default: slog.Default())
	Logger *slog.Logger

	// DisableStack omits the stack trace from the log record (default: false)
	DisableStack bool

	// OnPanic is called with the recovered value before the error is returned
	OnPanic func(ctx context.Context, req any, recovered any)
}

// Recovery creates a panic recovery middleware with default configuration.
func Recovery() cqbus.Middleware {
	return RecoveryWithConfig(RecoveryConfig{})
}

// RecoveryWithConfig creates a panic recovery middleware with custom configuration.
// A panic in any middleware registered before it, or in the handler, is
// returned as an error wrapping ErrPanic. Panics with an error value keep
// that error in the chain, so errors.Is works on both.
func RecoveryWithConfig(cfg RecoveryConfig) cqbus.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (result any, err error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		defer func() {
			r := recover()
			if r == nil {
				return
			}

			attrs := []slog.Attr{
				logger.Component("cqbus"),
				logger.RequestType(cqbus.RequestName(req)),
				logger.Panic(r),
			}
			if !cfg.DisableStack {
				attrs = append(attrs, logger.Stack())
			}
			cfg.Logger.LogAttrs(ctx, slog.LevelError, "request panicked", attrs...)

			if cfg.OnPanic != nil {
				cfg.OnPanic(ctx, req, r)
			}

			result = nil
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %s: %w", ErrPanic, cqbus.RequestName(req), perr)
				return
			}
			err = fmt.Errorf("%w: %s: %v", ErrPanic, cqbus.RequestName(req), r)
		}()

		return next(ctx, req)
	})
}
