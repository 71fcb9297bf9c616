package pool

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Mode selects the pool's scaling policy.
type Mode int

const (
	// ModeFixed keeps the worker count constant for the pool's lifetime,
	// regardless of load.
	ModeFixed Mode = iota

	// ModeCached grows the roster under backlog, at most one worker per
	// submission, up to the configured ceiling. Workers idle past the
	// idle timeout are reaped, never below the initial count.
	ModeCached
)

// String returns "fixed" or "cached".
func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeCached:
		return "cached"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Defaults applied by New when the corresponding option is not given.
const (
	// DefaultQueueCapacity leaves the queue effectively unbounded.
	DefaultQueueCapacity = math.MaxInt32

	// DefaultMaxWorkers caps cached-mode growth.
	DefaultMaxWorkers = 1024

	// DefaultIdleTimeout is how long a cached-mode worker may sit idle
	// before it becomes eligible for reaping.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultSubmitWait bounds how long Submit blocks on a full queue
	// before rejecting the task.
	DefaultSubmitWait = time.Second
)

var (
	ErrAlreadyStarted  = errors.New("pool already started")
	ErrNotStarted      = errors.New("pool not started")
	ErrAlreadyShutdown = errors.New("pool already shut down")

	// ErrInvalidWorkerCount is returned by Start for a worker count < 1.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrRejected is reported by Future.GetContext when the underlying
	// submission was refused because the queue stayed full past the
	// submit wait, or because the pool was not accepting tasks.
	ErrRejected = errors.New("submission rejected")
)

// Stats is a point-in-time snapshot of the pool. All fields are read
// under the pool lock in a single critical section, so they are mutually
// consistent.
type Stats struct {
	Mode          Mode
	Workers       int // current roster size
	IdleWorkers   int // workers inside their wait region; keeps its last value once the pool shuts down
	Pending       int // tasks accepted but not yet dequeued
	QueueCapacity int
	MaxWorkers    int

	// Cumulative counters for the pool's lifetime.
	Submitted uint64
	Rejected  uint64
	Completed uint64
	Panics    uint64
	Reaped    uint64
}
