package cqbus

import "context"

// Next invokes the rest of the chain. The innermost Next resolves and runs the handler.
type Next func(ctx context.Context, req any) (any, error)

// Middleware wraps request execution.
//
// Exec may run code before and after calling next, pass a derived ctx or a
// replacement request to next, or return without calling next to short-circuit.
// Calling next more than once is not supported.
// One instance serves every Execute call, so implementations must be safe
// for concurrent use.
type Middleware interface {
	Exec(ctx context.Context, req any, next Next, ec *ExecutionContext) (any, error)
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(ctx context.Context, req any, next Next, ec *ExecutionContext) (any, error)

// Exec calls f(ctx, req, next, ec).
func (f MiddlewareFunc) Exec(ctx context.Context, req any, next Next, ec *ExecutionContext) (any, error) {
	return f(ctx, req, next, ec)
}
