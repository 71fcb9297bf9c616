package pool

import (
	"errors"
	"time"
)

var (
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// waitUntil blocks until either the done channel is closed or the timeout
// is reached. It is used during graceful shutdown to wait for workers to
// complete their tasks. A timeout <= 0 waits forever.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

// clampDuration bounds d to [lo, hi].
func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
