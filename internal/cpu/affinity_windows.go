//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinity = kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
)

// Pin locks the calling goroutine to its OS thread and binds that thread
// to one CPU core via SetThreadAffinityMask. The returned release
// function unlocks the thread and should be deferred.
func Pin(id int) (release func()) {
	runtime.LockOSThread()

	core := id % runtime.NumCPU()
	if core < 0 {
		core += runtime.NumCPU()
	}

	handle, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << core
	_, _, _ = procSetThreadAffinity.Call(handle, mask)

	return runtime.UnlockOSThread
}
