// Package middleware provides ready-made cqbus middleware.
//
// Every middleware follows the same shape: an XConfig struct with a Skip
// predicate and sensible defaults, an X() constructor with the default
// configuration and an XWithConfig(cfg) constructor.
//
// # Ordering
//
// The bus runs the last registered middleware first, so register the
// outermost concern last:
//
//	bus := cqbus.New()
//	bus.RegisterMiddleware(middleware.RequireAuthenticated())
//	bus.RegisterMiddleware(middleware.Authentication(authenticator))
//	bus.RegisterMiddleware(middleware.Logging(logger))
//	bus.RegisterMiddleware(middleware.Recovery())
//	bus.RegisterMiddleware(middleware.RequestID())
//
// Execution then flows RequestID → Recovery → Logging → Authentication →
// RequireAuthenticated → handler.
//
// # Available Middleware
//
//   - RequestID: assigns a unique ID to every execution
//   - Logging: structured slog records per execution
//   - Recovery: turns panics into ErrPanic errors
//   - Timeout: bounds the context.Context handed to the rest of the chain
//   - Authentication: resolves a credential from the execution context into an identity
//   - Authorization: identity and role policies that short-circuit with ErrUnauthenticated or ErrForbidden
//   - RateLimit: per-caller token buckets backed by golang.org/x/time/rate
//   - Tracing: one OpenTelemetry span per execution
//   - Metrics: OpenTelemetry request counter and duration histogram
package middleware
