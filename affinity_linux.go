//go:build linux

package psrs

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinThread locks the calling goroutine to its OS thread and pins that
// thread to logical CPU id mod NumCPU. Returns the unpin function.
// Best-effort: scheduling errors are silently ignored. Affinity is an
// advisory capability, never required for correctness.
func pinThread(id int) func() {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(id % runtime.NumCPU())
	_ = unix.SchedSetaffinity(0, &set)
	return runtime.UnlockOSThread
}
