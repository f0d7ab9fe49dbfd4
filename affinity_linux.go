//go:build linux

package ocl

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinWorkerToCPU pins the calling goroutine's OS thread (which the caller
// must already have locked with runtime.LockOSThread) to CPU id, cycling
// through available CPUs. Failure is non-fatal: the worker keeps running
// unpinned, it just loses some cache-locality benefit across launches.
func pinWorkerToCPU(id int) {
	var set unix.CPUSet
	set.Zero()
	set.Set(id % runtime.NumCPU())
	_ = unix.SchedSetaffinity(0, &set)
}
