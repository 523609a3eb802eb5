package async

import (
	"context"
	"fmt"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[T any] struct {
	value T
	err   error
	done  chan struct{}
}

// Await waits for the computation to complete and returns its result.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitWithTimeout waits for the computation with a timeout.
// Returns ErrTimeout if the computation is still running when the timeout expires.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// AwaitContext waits for the computation or for ctx to be done, whichever comes first.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the computation finishes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Async runs fn(ctx, param) on its own goroutine and returns a Future for its result.
// A pre-canceled ctx completes the future with ctx.Err() without calling fn.
// A panic in fn completes the future with an error wrapping ErrPanicked.
// A nil ctx is treated as context.Background().
func Async[P, T any](ctx context.Context, param P, fn func(context.Context, P) (T, error)) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.value, f.err = call(ctx, param, fn)
	}()

	return f
}

func call[P, T any](ctx context.Context, param P, fn func(context.Context, P) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx, param)
}

// AwaitAll waits for every future and returns their results in order.
// The first error encountered (in argument order) is returned.
func AwaitAll[T any](futures ...*Future[T]) ([]T, error) {
	results := make([]T, len(futures))
	for i, future := range futures {
		v, err := future.Await()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// AwaitAny waits for the first future to complete and returns its index and result.
func AwaitAny[T any](futures ...*Future[T]) (int, T, error) {
	var zero T
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	type result struct {
		index int
		value T
		err   error
	}

	// Buffered so the losing goroutines never block.
	done := make(chan result, len(futures))
	for i, future := range futures {
		go func(index int, f *Future[T]) {
			v, err := f.Await()
			done <- result{index: index, value: v, err: err}
		}(i, future)
	}

	res := <-done
	return res.index, res.value, res.err
}
