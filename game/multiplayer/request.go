package multiplayer

import (
	"context"
	"sync"
)

// Request is the completion handle of one command. Command methods return
// immediately; the reply, or the failure that ends the wait, completes the
// handle exactly once.
type Request[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newRequest[T any]() *Request[T] {
	return &Request[T]{done: make(chan struct{})}
}

// resolved returns a handle that is already complete.
func resolved[T any](value T, err error) *Request[T] {
	r := newRequest[T]()
	r.complete(value, err)
	return r
}

func (r *Request[T]) complete(value T, err error) {
	r.once.Do(func() {
		r.value = value
		r.err = err
		close(r.done)
	})
}

// Done is closed once the request completes.
func (r *Request[T]) Done() <-chan struct{} {
	return r.done
}

// Result blocks until the request completes.
func (r *Request[T]) Result() (T, error) {
	<-r.done
	return r.value, r.err
}

// Wait is Result bounded by ctx. Giving up does not cancel the request on
// the wire; its reply is still consumed when it arrives.
func (r *Request[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
