// Package ocl configuration constants
package ocl

import "github.com/go-ocl/oclcpu/workgroup"

// Launch dimension limits.
const (
	// MaxWorkDims mirrors workgroup.MaxWorkDims for callers that only
	// import the root package.
	MaxWorkDims = workgroup.MaxWorkDims

	// MaxWorkGroupSize caps the work-items a single work-group may contain.
	MaxWorkGroupSize = 1024

	// DefaultWorkGroupSize is used when a kernel launch omits an explicit
	// local work size.
	DefaultWorkGroupSize = 256
)

// Memory pool parameters.
const (
	// MinAllocationSize is the smallest block size tracked in the free list.
	MinAllocationSize = 64

	// MemoryAlignment is the alignment, in bytes, applied to every
	// device allocation (cache-line sized).
	MemoryAlignment = 64

	// FreeListThreshold bounds how many freed blocks the pool retains
	// before it stops growing the free list.
	FreeListThreshold = 100
)

// Worker pool parameters, consumed by CPUDevice.
const (
	// DefaultStackSlack is the per-work-item goroutine stack slack hint
	// passed to workgroup.LaunchDescriptor.StackSize when a kernel does
	// not report its own PrivateMemSize.
	DefaultStackSlack = 64 * 1024

	// WorkGroupArenaGrowthFactor mirrors workgroup.WorkGroupArenaGrowthFactor
	// for callers that only import the root package.
	WorkGroupArenaGrowthFactor = workgroup.WorkGroupArenaGrowthFactor
)
