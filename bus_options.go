package cqbus

import "log/slog"

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for registration and resolution diagnostics.
// Nil is ignored.
//
// Example:
//
//	bus := cqbus.New(cqbus.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMiddleware appends middleware in the given order.
// Nil entries are skipped.
//
// Example:
//
//	bus := cqbus.New(cqbus.WithMiddleware(
//		middleware.Recovery(),
//		middleware.Logging(logger),
//	))
func WithMiddleware(middleware ...Middleware) Option {
	return func(b *Bus) {
		for _, m := range middleware {
			if m != nil {
				b.middleware = append(b.middleware, m)
			}
		}
	}
}
