package loader

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Future.Result before the future is resolved.
var ErrPending = errors.New("loader: result not ready")

// Future is the eventual result of an asynchronous load. A Future resolves
// exactly once; every reader observes the same value and error.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already resolved with value and err.
//
// Parameters:
//   - value: the result value
//   - err: the result error
//
// Returns:
//   - *Future[T]: the resolved future
func Resolved[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(value, err)
	return f
}

// resolve sets the result. Only the first call has any effect.
//
// Returns:
//   - bool: true if this call resolved the future
func (f *Future[T]) resolve(value T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
		resolved = true
	})
	return resolved
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done.
//
// Parameters:
//   - ctx: bounds the wait
//
// Returns:
//   - T: the loaded value
//   - error: the load error, or ctx.Err() if ctx ended first
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking.
//
// Returns:
//   - T: the loaded value
//   - error: the load error, or ErrPending if the future is not resolved yet
func (f *Future[T]) Result() (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
		var zero T
		return zero, ErrPending
	}
}
