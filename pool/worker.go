package pool

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/threadctl/threadpool/anyval"
	"github.com/threadctl/threadpool/internal/cpu"
)

const (
	minReapInterval = 10 * time.Millisecond
	maxReapInterval = time.Second
)

// worker is one roster entry: a stable id joined to the goroutine running
// the pool's worker loop. Ids are assigned monotonically and never reused
// for the pool's lifetime, so a roster key always names the same worker.
type worker struct {
	id   int64
	pool *Pool
}

// run is the worker loop: Spawned -> Idle -> Executing -> (Idle | Exiting).
//
// The loop holds the pool lock only to inspect and mutate shared state;
// task bodies always run unlocked. A worker exits when the pool has shut
// down and the queue is drained, or, in cached mode, when it has idled
// past the timeout and the roster is above its initial size. Either way
// it removes its own roster entry as the loop's final act.
func (w *worker) run() error {
	p := w.pool

	if p.conf.osThreads {
		release := cpu.Pin(int(w.id))
		defer release()
	}

	lastActive := time.Now()

	for {
		p.mu.Lock()

		for p.tasks.len() == 0 {
			if !p.running {
				p.removeSelfLocked(w, false)
				p.mu.Unlock()
				return nil
			}

			if p.conf.mode == ModeCached &&
				time.Since(lastActive) >= p.conf.idleTimeout &&
				p.curWorkers > p.initialWorkers {
				p.removeSelfLocked(w, true)
				p.mu.Unlock()
				return nil
			}

			p.notEmpty.Wait()
		}

		// Idle -> Executing. Chain the wakeup to the next idle worker
		// if tasks remain, and free exactly one submitter slot.
		p.idleWorkers--
		s := p.tasks.pop()
		if p.tasks.len() > 0 {
			p.notEmpty.Signal()
		}
		p.notFull.Signal()
		p.conf.metrics.roster(p.curWorkers, p.idleWorkers, p.tasks.len())
		p.mu.Unlock()

		panicked := p.execute(w, s)

		// Executing -> Idle.
		p.mu.Lock()
		p.completed++
		if panicked {
			p.panics++
		}
		p.idleWorkers++
		p.conf.metrics.roster(p.curWorkers, p.idleWorkers, p.tasks.len())
		p.mu.Unlock()

		lastActive = time.Now()
	}
}

// removeSelfLocked deletes the worker's roster entry from within its own
// loop, immediately before the goroutine returns. A reaped worker gives
// back its counter credits; on the shutdown path the roster removal
// itself is the bookkeeping.
func (p *Pool) removeSelfLocked(w *worker, reaped bool) {
	delete(p.workers, w.id)
	if reaped {
		p.curWorkers--
		p.idleWorkers--
		p.reaped++
		p.conf.metrics.workerReaped()
		p.conf.logger.WithFields(logrus.Fields{
			"worker_id": w.id,
			"workers":   p.curWorkers,
		}).Debug("idle worker reaped")
	}
	p.conf.metrics.roster(p.curWorkers, p.idleWorkers, p.tasks.len())
	debugLog("worker %d exiting (reaped=%v, roster=%d)", w.id, reaped, len(p.workers))
}

// execute runs one dequeued task outside the lock, pacing on the rate
// limiter when one is configured. It reports whether the task panicked.
func (p *Pool) execute(w *worker, s *submission) (panicked bool) {
	if p.conf.rateLimiter != nil {
		if err := p.conf.rateLimiter.Wait(p.ctx); err != nil {
			p.conf.logger.WithError(err).Debug("rate limit wait interrupted")
		}
	}

	start := time.Now()
	panicked = p.runTask(w, s)
	p.conf.metrics.taskCompleted(time.Since(start))
	if panicked {
		p.conf.metrics.taskPanicked()
	}
	return panicked
}

// runTask executes the task body with panic containment. A panicking
// task loses its result: the future completes with the empty value so
// readers never block on it, and the worker itself survives.
func (p *Pool) runTask(w *worker, s *submission) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			p.conf.logger.WithField("worker_id", w.id).
				Errorf("task panic: %v\n%s", r, buf[:n])
			if s.future != nil {
				s.future.complete(anyval.Value{})
			}
		}
	}()

	s.exec()
	return false
}

// reaper gives cached-mode idle waits their periodic timeout. sync.Cond
// has no bounded wait, so a per-pool ticker broadcasts instead and every
// idle worker re-evaluates its reap eligibility on wake. The tick tracks
// the idle timeout but stays within [10ms, 1s].
func (p *Pool) reaper() {
	interval := clampDuration(p.conf.idleTimeout/4, minReapInterval, maxReapInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.notEmpty.Broadcast()
		case <-p.done:
			return
		}
	}
}
