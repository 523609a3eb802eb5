// Package async provides a generic Future for running work on its own goroutine.
//
// # Usage
//
//	future := async.Async(ctx, userID, fetchUser)
//
//	// Do other work...
//
//	user, err := future.Await()
//
// With a timeout:
//
//	user, err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("operation timed out")
//	}
//
// AwaitWithTimeout does not cancel the running function. Pass a cancellable context
// to Async when the work must stop.
//
// # Coordination
//
//	results, err := async.AwaitAll(f1, f2, f3)
//	index, value, err := async.AwaitAny(f1, f2, f3)
//
// # Panics
//
// A panic inside the function completes the future with an error wrapping ErrPanicked
// instead of crashing the process.
package async
