//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. CPU pinning is not
// implemented for this platform.
func Pin(id int) (release func()) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
