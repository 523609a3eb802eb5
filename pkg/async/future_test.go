package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cqbus/pkg/async"
)

func double(_ context.Context, n int) (int, error) {
	return n * 2, nil
}

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns result", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 21, double)
		v, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		f := async.Async(context.Background(), "x", func(context.Context, string) (string, error) {
			return "", boom
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("pre-canceled context skips the function", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Async(ctx, 1, func(context.Context, int) (int, error) {
			called.Store(true)
			return 1, nil
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("context cancellation reaches the function", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		f := async.Async(ctx, 1, func(ctx context.Context, _ int) (int, error) {
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("recovers panic", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
			panic("kaboom")
		})
		v, err := f.Await()
		require.ErrorIs(t, err, async.ErrPanicked)
		assert.Contains(t, err.Error(), "kaboom")
		assert.Zero(t, v)
	})

	t.Run("nil context is treated as background", func(t *testing.T) {
		t.Parallel()

		var ctx context.Context
		f := async.Async(ctx, 4, func(ctx context.Context, n int) (int, error) {
			if ctx == nil {
				return 0, errors.New("nil context")
			}
			return n * 2, nil
		})
		v, err := f.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.Equal(t, 8, v)
	})
}

func TestFutureIsComplete(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
		<-release
		return 1, nil
	})

	assert.False(t, f.IsComplete())
	close(release)

	<-f.Done()
	assert.True(t, f.IsComplete())
}

func TestFutureAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("times out", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		})
		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
	})

	t.Run("completes in time", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 2, double)
		v, err := f.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})
}

func TestFutureAwaitContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	f := async.Async(context.Background(), 1, func(context.Context, int) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitAll(t *testing.T) {
	t.Parallel()

	t.Run("collects results in order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		results, err := async.AwaitAll(
			async.Async(ctx, 1, double),
			async.Async(ctx, 2, double),
			async.Async(ctx, 3, double),
		)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 6}, results)
	})

	t.Run("returns first error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		ctx := context.Background()
		_, err := async.AwaitAll(
			async.Async(ctx, 1, double),
			async.Async(ctx, 2, func(context.Context, int) (int, error) { return 0, boom }),
		)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		results, err := async.AwaitAll[int]()
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestAwaitAny(t *testing.T) {
	t.Parallel()

	t.Run("returns the first completed", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		ctx := context.Background()
		slow := async.Async(ctx, 1, func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		})
		fast := async.Async(ctx, 5, double)

		index, v, err := async.AwaitAny(slow, fast)
		require.NoError(t, err)
		assert.Equal(t, 1, index)
		assert.Equal(t, 10, v)
	})

	t.Run("no futures", func(t *testing.T) {
		t.Parallel()

		index, _, err := async.AwaitAny[int]()
		assert.ErrorIs(t, err, async.ErrNoFutures)
		assert.Equal(t, -1, index)
	})
}
