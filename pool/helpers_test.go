package pool

import (
	"testing"
	"time"
)

// waitFor polls cond every few milliseconds until it holds or the
// deadline passes. Used by tests that assert on roster movement, which
// is asynchronous by nature.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
