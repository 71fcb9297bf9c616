package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/threadctl/threadpool/anyval"
)

// Pool is a worker pool with a bounded FIFO task queue and a fixed or
// elastically sized roster. Callers submit tasks and read results back
// through the returned Future; the pool owns scheduling, backpressure,
// growth, reaping, and teardown.
//
// The queue, the roster, and every accounting counter form one atomically
// guarded unit behind a single lock. Cross-field invariants (idle count
// versus roster size versus queue depth) hold at every lock release,
// which is what makes the wakeup logic safe to reason about.
type Pool struct {
	conf *config

	mu       deadlock.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	tasks   *taskRing
	workers map[int64]*worker
	nextID  int64

	initialWorkers int
	curWorkers     int
	idleWorkers    int

	started  bool
	running  bool
	shutdown bool

	// lifetime counters, guarded by mu
	submitted uint64
	rejected  uint64
	completed uint64
	panics    uint64
	reaped    uint64

	group  errgroup.Group
	done   chan struct{} // closed once every worker has exited
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an unstarted pool with the given options applied over the
// defaults (fixed mode, effectively unbounded queue, 1024 max workers,
// 60s idle timeout, 1s submit wait). Call Start to spawn workers.
//
// Example:
//
//	p := pool.New(
//	    pool.WithMode(pool.ModeCached),
//	    pool.WithMaxWorkers(64),
//	)
//	if err := p.Start(4); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(10 * time.Second)
func New(opts ...Option) *Pool {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Pool{
		conf:    cfg,
		tasks:   newTaskRing(),
		workers: make(map[int64]*worker),
		done:    make(chan struct{}),
	}
	p.notFull = sync.NewCond(&p.mu)
	p.notEmpty = sync.NewCond(&p.mu)
	return p
}

// Start spawns exactly workers workers and begins accepting submissions.
// All of them start idle. Must be called exactly once before any Submit.
//
// Returns:
//   - ErrInvalidWorkerCount for a count < 1
//   - ErrAlreadyStarted on a second call
func (p *Pool) Start(workers int) error {
	if workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true
	p.running = true
	p.initialWorkers = workers
	p.ctx, p.cancel = context.WithCancel(context.Background())

	for range workers {
		p.spawnWorkerLocked()
	}

	// The group drains when the last worker returns; that close is the
	// roster-drained signal Shutdown waits on.
	go func() {
		_ = p.group.Wait()
		p.cancel()
		close(p.done)
	}()

	if p.conf.mode == ModeCached {
		go p.reaper()
	}

	p.conf.metrics.roster(p.curWorkers, p.idleWorkers, p.tasks.len())
	p.conf.logger.WithFields(logrus.Fields{
		"mode":    p.conf.mode.String(),
		"workers": workers,
	}).Info("pool started")
	return nil
}

// Submit hands a task to the pool and returns the future for its result.
//
// Submit never returns an error. If the queue stays full past the
// configured submit wait, or the pool is not running, the task is not
// enqueued and the returned future reports OK() == false; its Get
// returns the empty value immediately. That is the pool's entire
// backpressure contract: bounded blocking, graceful rejection.
//
// In cached mode a submission that finds more backlog than idle workers
// grows the roster by exactly one worker, up to the configured maximum.
//
// Example:
//
//	f := p.Submit(pool.TaskFunc(func() anyval.Value {
//	    return anyval.New(crunch(input))
//	}))
//	if !f.OK() {
//	    // queue full, try again later
//	}
//	out := f.Get()
func (p *Pool) Submit(t Task) *Future {
	p.mu.Lock()

	if t == nil || !p.running {
		return p.rejectLocked(t)
	}

	// Bounded wait for queue room. The timer gives the condition wait
	// its deadline; spurious wakeups re-check the predicate.
	deadline := time.Now().Add(p.conf.submitWait)
	for p.tasks.len() >= p.conf.queueCap && p.running {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		timer := time.AfterFunc(remaining, p.notFull.Broadcast)
		p.notFull.Wait()
		timer.Stop()
	}

	if !p.running || p.tasks.len() >= p.conf.queueCap {
		return p.rejectLocked(t)
	}

	fut := newFuture()
	p.tasks.push(&submission{task: t, future: fut})
	p.submitted++
	p.conf.metrics.taskSubmitted()
	p.notEmpty.Signal()

	if p.conf.mode == ModeCached &&
		p.tasks.len() > p.idleWorkers &&
		p.curWorkers < p.conf.maxWorkers {
		p.spawnWorkerLocked()
		p.conf.logger.WithFields(logrus.Fields{
			"workers": p.curWorkers,
			"pending": p.tasks.len(),
		}).Debug("roster grown under backlog")
	}

	p.conf.metrics.roster(p.curWorkers, p.idleWorkers, p.tasks.len())
	p.mu.Unlock()
	return fut
}

// SubmitFunc wraps fn in a TaskFunc and submits it.
func (p *Pool) SubmitFunc(fn func() anyval.Value) *Future {
	if fn == nil {
		return p.Submit(nil)
	}
	return p.Submit(TaskFunc(fn))
}

// rejectLocked records a refused submission and releases the lock.
// Capacity rejections are routine backpressure and log at debug; a nil
// task or a submit outside the running window is caller misuse and logs
// at warn.
func (p *Pool) rejectLocked(t Task) *Future {
	p.rejected++
	p.conf.metrics.taskRejected()

	entry := p.conf.logger.WithFields(logrus.Fields{
		"running": p.running,
		"pending": p.tasks.len(),
	})
	switch {
	case t == nil:
		entry.Warn("submission rejected: nil task")
	case !p.running:
		entry.Warn("submission rejected: pool not running")
	default:
		entry.Debug("submission rejected: queue full past submit wait")
	}

	p.mu.Unlock()
	return newRejectedFuture()
}

// spawnWorkerLocked adds one worker to the roster and launches it.
// The new worker counts as idle until it picks up a task.
func (p *Pool) spawnWorkerLocked() {
	p.nextID++
	w := &worker{id: p.nextID, pool: p}
	p.workers[w.id] = w
	p.curWorkers++
	p.idleWorkers++
	p.group.Go(w.run)
}

// Shutdown stops the pool and waits for the roster to drain. Teardown is
// a two-phase handshake: flip the running flag under the lock and wake
// every waiter, then block until the last worker has removed itself.
// Tasks already accepted still run; see the package documentation.
//
// A timeout of 0 waits forever; otherwise ErrShutdownTimeout is returned
// if workers are still busy when it elapses.
//
// Example:
//
//	if err := p.Shutdown(5 * time.Second); err != nil {
//	    log.Printf("shutdown: %v", err)
//	}
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	if p.shutdown {
		p.mu.Unlock()
		return ErrAlreadyShutdown
	}
	p.shutdown = true
	p.running = false
	pending := p.tasks.len()
	p.notEmpty.Broadcast()
	p.notFull.Broadcast()
	p.mu.Unlock()

	p.conf.logger.WithField("pending", pending).Info("pool shutting down")

	if err := waitUntil(p.done, timeout); err != nil {
		return err
	}

	p.conf.logger.Info("pool drained")
	return nil
}

// Stats returns a consistent snapshot of the pool taken under its lock.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Mode:          p.conf.mode,
		Workers:       len(p.workers),
		IdleWorkers:   p.idleWorkers,
		Pending:       p.tasks.len(),
		QueueCapacity: p.conf.queueCap,
		MaxWorkers:    p.conf.maxWorkers,
		Submitted:     p.submitted,
		Rejected:      p.rejected,
		Completed:     p.completed,
		Panics:        p.panics,
		Reaped:        p.reaped,
	}
}

// Running reports whether the pool is accepting submissions.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
