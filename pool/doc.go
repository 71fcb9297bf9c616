// Package pool provides a worker pool with a bounded FIFO task queue,
// fixed or elastic sizing, and one-shot result futures.
//
// Callers submit opaque tasks; some worker eventually dequeues and runs
// each one and stores its result in the Future returned at submit time.
// Task execution and result consumption are independent: the submitter
// may read the future before, during, or long after the task runs.
//
// # Basic Usage
//
//	p := pool.New()
//	if err := p.Start(4); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown(0)
//
//	f := p.Submit(pool.TaskFunc(func() anyval.Value {
//	    sum := 0
//	    for i := 1; i <= 100; i++ {
//	        sum += i
//	    }
//	    return anyval.New(sum)
//	}))
//
//	total := anyval.MustAs[int](f.Get()) // 5050
//
// # Scaling Modes
//
// The pool runs in one of two modes, chosen before Start:
//
//   - ModeFixed: the roster stays at exactly the Start count for the
//     pool's lifetime, regardless of load.
//   - ModeCached: a submission that finds more backlog than idle workers
//     grows the roster by one, up to the configured maximum. Workers
//     idle past the idle timeout are reaped, never below the Start count.
//
// # Backpressure
//
// The queue is bounded. When it is full, Submit blocks up to the
// configured submit wait for room; if none opens up, the task is refused
// and the returned future reports OK() == false. Submit never returns an
// error and never blocks indefinitely. Get on a rejected future returns
// the empty value immediately, so a caller that skips the OK check still
// cannot hang.
//
// # Shutdown
//
// Shutdown flips the pool out of the running state, wakes every blocked
// worker, and waits for the roster to drain. Tasks already accepted into
// the queue still run before their workers exit, so every future from an
// accepted submission completes. A timeout of 0 waits forever.
//
// # Configuration
//
// Options to New:
//
//   - WithMode(m): scaling policy (default ModeFixed)
//   - WithQueueCapacity(n): queue bound (default effectively unbounded)
//   - WithMaxWorkers(n): cached-mode ceiling (default 1024)
//   - WithIdleTimeout(d): cached-mode reap threshold (default 60s)
//   - WithSubmitWait(d): full-queue wait before rejection (default 1s)
//   - WithLogger(l): structured logging via logrus (default discard)
//   - WithMetrics(m): Prometheus counters and gauges
//   - WithRateLimit(rps, burst): pace task starts
//   - WithOSThreads(): pin each worker to an OS thread and CPU core
//
// SetMode, SetQueueCapacity, and SetMaxWorkers mirror the corresponding
// options for callers that configure after construction. Once the pool
// is running every setter is silently ignored; nothing reconfigures an
// active worker loop. Configure first, then Start.
//
// # Error Handling
//
// A full queue is the only failure the pool reports on the hot path, and
// it is reported through the future, not an error. Tasks own their
// failures: convert errors into the returned value (for example
// anyval.New(err)) and inspect them on the reading side. A task that
// panics is contained: the worker logs the panic with a stack trace,
// completes the future with the empty value, and keeps running.
package pool
