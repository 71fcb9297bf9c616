package pool

import (
	"context"
	"sync"

	"github.com/threadctl/threadpool/anyval"
)

// Future is the one-shot rendezvous between the goroutine that submitted
// a task and the worker that executes it. The worker stores exactly one
// value; any number of readers then observe that same value. A Future is
// created by Submit and outlives the task it was bound to.
type Future struct {
	ok   bool
	once sync.Once
	val  anyval.Value
	done chan struct{}
}

// newFuture returns a pending future for an accepted submission.
func newFuture() *Future {
	return &Future{
		ok:   true,
		done: make(chan struct{}),
	}
}

// newRejectedFuture returns a future for a refused submission. Its done
// channel is pre-closed so every read path returns immediately with the
// empty value.
func newRejectedFuture() *Future {
	done := make(chan struct{})
	close(done)
	return &Future{done: done}
}

// OK reports whether the submission behind this future was accepted.
// A false return is the pool's only rejection signal: the task was never
// enqueued and Get will return the empty value immediately.
func (f *Future) OK() bool {
	return f.ok
}

// Get blocks until the task has produced its value, then returns it.
// Repeated and concurrent calls all return the same value. On a rejected
// future Get does not block and returns the empty anyval.Value.
//
// Example:
//
//	f := p.Submit(pool.TaskFunc(func() anyval.Value {
//	    return anyval.New(sum(1, 100))
//	}))
//	total := anyval.MustAs[int](f.Get())
func (f *Future) Get() anyval.Value {
	<-f.done
	return f.val
}

// GetContext is Get with cancellation. It returns ctx.Err() if the
// context ends first, and ErrRejected without blocking when the
// submission was refused.
func (f *Future) GetContext(ctx context.Context) (anyval.Value, error) {
	if !f.ok {
		return anyval.Value{}, ErrRejected
	}

	select {
	case <-f.done:
		return f.val, nil
	case <-ctx.Done():
		return anyval.Value{}, ctx.Err()
	}
}

// TryGet returns the value without blocking. The second return reports
// readiness; a rejected future is always ready with the empty value.
func (f *Future) TryGet() (anyval.Value, bool) {
	select {
	case <-f.done:
		return f.val, true
	default:
		return anyval.Value{}, false
	}
}

// Done returns a channel closed once the value is available (or
// immediately for a rejected future), for use in select statements.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// complete stores the produced value and releases every reader. Exactly
// one call per accepted future; a second call is a contract violation.
func (f *Future) complete(v anyval.Value) {
	committed := false
	f.once.Do(func() {
		f.val = v
		close(f.done)
		committed = true
	})
	if !committed {
		panic("BUG: future completed twice")
	}
}
