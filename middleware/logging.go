package middleware

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cqbus"
	"github.com/dmitrymomot/cqbus/core/logger"
)

// LoggingConfig configures the execution logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful executions (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogStart logs a debug record before the request runs (default: false)
	LogStart bool

	// HideIdentity omits the caller identity from records (default: false)
	HideIdentity bool

	// SlowThreshold logs executions slower than this at warning level (default: 1s)
	SlowThreshold time.Duration

	// Component name for structured logging (default: "cqbus")
	Component string
}

// Logging creates an execution logging middleware writing to log.
func Logging(log *slog.Logger) cqbus.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates an execution logging middleware with custom configuration.
// Failures are logged at error level, slow executions at warning level and
// everything else at cfg.LogLevel.
func LoggingWithConfig(cfg LoggingConfig) cqbus.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = time.Second
	}

	if cfg.Component == "" {
		cfg.Component = "cqbus"
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		start := time.Now()

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.RequestType(cqbus.RequestName(req)),
			logger.RequestKind(cqbus.KindOf(req).String()),
		}

		if requestID, ok := GetRequestID(ec); ok {
			attrs = append(attrs, logger.RequestID(requestID))
		}

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			attrs = append(attrs, logger.TraceID(sc.TraceID().String()))
		}

		if cfg.LogStart {
			cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "request started",
				append(attrs, logger.Event("start"))...)
		}

		result, err := next(ctx, req)
		duration := time.Since(start)

		// Identity is read after next so authentication below this middleware is reflected.
		if !cfg.HideIdentity {
			attrs = append(attrs, logger.Identity(ec.Identity()))
		}
		attrs = append(attrs, logger.Duration(duration))

		switch {
		case err != nil:
			cfg.Logger.LogAttrs(ctx, slog.LevelError, "request failed",
				append(attrs, logger.Result("failure"), logger.Error(err))...)
		case duration >= cfg.SlowThreshold:
			cfg.Logger.LogAttrs(ctx, slog.LevelWarn, "slow request",
				append(attrs, logger.Result("success"), slog.Duration("threshold", cfg.SlowThreshold))...)
		default:
			cfg.Logger.LogAttrs(ctx, cfg.LogLevel, "request completed",
				append(attrs, logger.Result("success"))...)
		}

		return result, err
	})
}
