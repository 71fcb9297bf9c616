package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors the pool updates when attached
// via WithMetrics. Every method on Metrics is safe on a nil receiver, so
// the pool instruments unconditionally and pays nothing when metrics are
// not configured.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksRejected  prometheus.Counter
	TasksCompleted prometheus.Counter
	TaskPanics     prometheus.Counter
	WorkersReaped  prometheus.Counter
	Workers        prometheus.Gauge
	IdleWorkers    prometheus.Gauge
	QueueDepth     prometheus.Gauge
	TaskDuration   prometheus.Histogram
}

// NewMetrics builds the pool's collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer for the default registry, or a
// private registry in tests. Registration failures panic, matching
// prometheus.MustRegister.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the pool",
		}),
		TasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_rejected_total",
			Help:      "Total number of submissions rejected on a full queue",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks executed to completion",
		}),
		TaskPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_panics_total",
			Help:      "Total number of panics recovered from task bodies",
		}),
		WorkersReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workers_reaped_total",
			Help:      "Total number of idle workers reaped in cached mode",
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workers",
			Help:      "Current number of workers in the roster",
		}),
		IdleWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "idle_workers",
			Help:      "Current number of idle workers",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Tasks accepted but not yet dequeued",
		}),
		TaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_duration_seconds",
			Help:      "Histogram of task execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.TasksSubmitted,
		m.TasksRejected,
		m.TasksCompleted,
		m.TaskPanics,
		m.WorkersReaped,
		m.Workers,
		m.IdleWorkers,
		m.QueueDepth,
		m.TaskDuration,
	)

	return m
}

func (m *Metrics) taskSubmitted() {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
}

func (m *Metrics) taskRejected() {
	if m == nil {
		return
	}
	m.TasksRejected.Inc()
}

func (m *Metrics) taskCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.TasksCompleted.Inc()
	m.TaskDuration.Observe(d.Seconds())
}

func (m *Metrics) taskPanicked() {
	if m == nil {
		return
	}
	m.TaskPanics.Inc()
}

func (m *Metrics) workerReaped() {
	if m == nil {
		return
	}
	m.WorkersReaped.Inc()
}

// roster publishes the gauge triple. Called under the pool lock at every
// transition that moves a counter.
func (m *Metrics) roster(workers, idle, pending int) {
	if m == nil {
		return
	}
	m.Workers.Set(float64(workers))
	m.IdleWorkers.Set(float64(idle))
	m.QueueDepth.Set(float64(pending))
}
