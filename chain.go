package cqbus

import "context"

// chain builds a single Next from the middleware list and the final step.
// The last registered middleware is the outermost and runs first.
func chain(final Next, middleware []Middleware, ec *ExecutionContext) Next {
	next := final
	for _, m := range middleware {
		inner := next
		next = func(ctx context.Context, req any) (any, error) {
			return m.Exec(ctx, req, inner, ec)
		}
	}
	return next
}
