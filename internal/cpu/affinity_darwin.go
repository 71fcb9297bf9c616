//go:build darwin

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. macOS has no public
// thread-affinity API, so the id is unused and only the lock is applied.
func Pin(id int) (release func()) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
