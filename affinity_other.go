//go:build !linux

package ocl

// pinWorkerToCPU is a no-op on platforms without SchedSetaffinity; the
// worker pool still runs correctly, just without CPU pinning.
func pinWorkerToCPU(id int) {}
