package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cqbus"
)

// RequestIDKey is the execution context key holding the request ID.
const RequestIDKey = "request_id"

// requestIDContextKey is used as a key for storing request ID in context.Context.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx context.Context, req any) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// UseExisting keeps a non-empty ID the caller already put under RequestIDKey
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// It generates a new UUID for each execution.
func RequestID() cqbus.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
// The ID is stored in the execution context under RequestIDKey and in the
// context.Context passed down the chain.
func RequestIDWithConfig(cfg RequestIDConfig) cqbus.Middleware {
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return cqbus.MiddlewareFunc(func(ctx context.Context, req any, next cqbus.Next, ec *cqbus.ExecutionContext) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx, req) {
			return next(ctx, req)
		}

		var requestID string

		if cfg.UseExisting {
			if existing, ok := cqbus.Value[string](ec, RequestIDKey); ok {
				requestID = existing
			}
		}

		if requestID == "" {
			requestID = cfg.Generator()
		}

		ec.Set(RequestIDKey, requestID)

		return next(context.WithValue(ctx, requestIDContextKey{}, requestID), req)
	})
}

// GetRequestID retrieves the request ID from the execution context.
// Returns the request ID and a boolean indicating whether it was found.
func GetRequestID(ec *cqbus.ExecutionContext) (string, bool) {
	id, ok := cqbus.Value[string](ec, RequestIDKey)
	return id, ok && id != ""
}

// RequestIDFromContext retrieves the request ID from ctx.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return id
	}
	return ""
}
