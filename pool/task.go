package pool

import "github.com/threadctl/threadpool/anyval"

// Task is a unit of work submitted to the pool. Run produces the task's
// result; everything the task needs must be captured at construction.
// A task is consumed exactly once: queued once, executed once, never
// re-queued.
//
// A task is responsible for its own errors. Convert failures into the
// returned value (for example anyval.New(err)) rather than panicking;
// the pool contains panics but discards the result when one occurs.
type Task interface {
	Run() anyval.Value
}

// TaskFunc adapts a plain function to the Task interface.
//
// Example:
//
//	f := p.Submit(pool.TaskFunc(func() anyval.Value {
//	    return anyval.New(compute())
//	}))
type TaskFunc func() anyval.Value

// Run calls fn.
func (fn TaskFunc) Run() anyval.Value {
	return fn()
}

// submission pairs a task with the future created for it at submit time.
// The pairing exists before the task is visible to any worker, so a
// worker always finds the rendezvous already bound.
type submission struct {
	task   Task
	future *Future
}

// exec runs the task and forwards the produced value into the bound
// future. A submission without a future discards the result.
func (s *submission) exec() {
	v := s.task.Run()
	if s.future == nil {
		return
	}
	s.future.complete(v)
}
