package cqbus

import (
	"context"

	"github.com/dmitrymomot/cqbus/pkg/async"
)

// ExecuteAsync runs Execute on its own goroutine and returns a Future for the result.
// A panic anywhere in the chain completes the future with async.ErrPanicked.
// A ctx that is already done completes the future with ctx.Err() without
// running the chain.
//
// Example:
//
//	f := cqbus.ExecuteAsync[Report](ctx, bus, BuildReport{Month: 3}, ec)
//	report, err := f.AwaitWithTimeout(5 * time.Second)
func ExecuteAsync[R any](ctx context.Context, b *Bus, req Request[R], ec *ExecutionContext) *async.Future[R] {
	if ctx == nil {
		ctx = context.Background()
	}
	return async.Async(ctx, req, func(ctx context.Context, req Request[R]) (R, error) {
		return Execute[R](ctx, b, req, ec)
	})
}
