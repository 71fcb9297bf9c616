package pool

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*config)

type config struct {
	mode        Mode
	queueCap    int
	maxWorkers  int
	idleTimeout time.Duration
	submitWait  time.Duration
	logger      logrus.FieldLogger
	metrics     *Metrics
	rateLimiter *rate.Limiter
	osThreads   bool
}

func defaultConfig() *config {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &config{
		mode:        ModeFixed,
		queueCap:    DefaultQueueCapacity,
		maxWorkers:  DefaultMaxWorkers,
		idleTimeout: DefaultIdleTimeout,
		submitWait:  DefaultSubmitWait,
		logger:      log,
	}
}

// WithMode selects the scaling policy.
// If not specified, defaults to ModeFixed.
func WithMode(m Mode) Option {
	return func(cfg *config) {
		cfg.mode = m
	}
}

// WithQueueCapacity bounds the task queue. Submissions past this bound
// wait up to the submit timeout for room, then are rejected.
// If not specified, the queue is effectively unbounded.
func WithQueueCapacity(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.queueCap = n
		}
	}
}

// WithMaxWorkers caps cached-mode growth. It has no effect in ModeFixed.
// If not specified, defaults to DefaultMaxWorkers.
func WithMaxWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxWorkers = n
		}
	}
}

// WithIdleTimeout sets how long a cached-mode worker may sit idle before
// it becomes eligible for reaping. It has no effect in ModeFixed.
// If not specified, defaults to DefaultIdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.idleTimeout = d
		}
	}
}

// WithSubmitWait bounds how long Submit blocks waiting for queue room
// before rejecting. If not specified, defaults to DefaultSubmitWait.
func WithSubmitWait(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.submitWait = d
		}
	}
}

// WithLogger routes the pool's structured logs to the given logger.
// If not specified, logs are discarded.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation to the pool. The pool
// updates the metrics but does not register them; see NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks to start per second.
// burst specifies the maximum number of tasks that can start in a burst.
// This is useful for preventing overwhelming external services or APIs.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithOSThreads locks every worker to its own OS thread and pins it to a
// CPU where the platform supports that. Useful when tasks benefit from
// cache locality or call into thread-sensitive code.
func WithOSThreads() Option {
	return func(cfg *config) {
		cfg.osThreads = true
	}
}

// SetMode selects the scaling policy. Silently ignored once the pool is
// running: configuration must never race an active worker loop.
func (p *Pool) SetMode(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.conf.logger.WithField("mode", m.String()).Debug("SetMode ignored: pool is running")
		return
	}
	p.conf.mode = m
}

// SetQueueCapacity bounds the task queue. Values < 1 are ignored, as is
// any call made while the pool is running.
func (p *Pool) SetQueueCapacity(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.conf.logger.WithField("capacity", n).Debug("SetQueueCapacity ignored: pool is running")
		return
	}
	if n > 0 {
		p.conf.queueCap = n
	}
}

// SetMaxWorkers caps cached-mode growth. Values < 1 are ignored, as is
// any call made while the pool is running. Has no effect in ModeFixed.
func (p *Pool) SetMaxWorkers(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.conf.logger.WithField("max_workers", n).Debug("SetMaxWorkers ignored: pool is running")
		return
	}
	if n > 0 {
		p.conf.maxWorkers = n
	}
}
