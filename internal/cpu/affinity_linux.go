//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and binds that thread
// to one CPU core, chosen by id modulo the core count. The returned
// release function unlocks the thread and should be deferred.
func Pin(id int) (release func()) {
	runtime.LockOSThread()

	core := id % runtime.NumCPU()
	if core < 0 {
		core += runtime.NumCPU()
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	_ = unix.SchedSetaffinity(0, &mask) // 0 = current thread

	return runtime.UnlockOSThread
}
