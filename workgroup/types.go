package workgroup

import (
	"github.com/pkg/errors"
)

// MaxWorkDims is the largest number of work dimensions a launch may use.
const MaxWorkDims = 3

// Vec is a fixed-size coordinate used for global/local sizes, offsets, ids
// and group indices. Dimensions beyond WorkDim are unused; NewLaunchDescriptor
// sets LocalWorkSize and NumGroups to 1 there and leaves the rest as given.
type Vec [MaxWorkDims]uint64

// KernelFunc is the native entry point for a work-item. It is invoked once
// per work-item, and may call methods on wi (including wi.Barrier) any
// number of times before returning.
type KernelFunc func(wi *WorkItem)

// LaunchDescriptor is the read-only, per-launch configuration shared by
// every work-group that executes it. It corresponds to an NDRange launch.
type LaunchDescriptor struct {
	Name             string // kernel name, for diagnostics only
	WorkDim          int
	GlobalWorkSize   Vec
	LocalWorkSize    Vec
	GlobalWorkOffset Vec
	NumGroups        Vec
	NumWorkItems     uint64 // work-items per work-group: product of LocalWorkSize[0:WorkDim]
	Kernel           KernelFunc
	LocalMemSize     uint64 // bytes of __local memory requested by the kernel
	StackSize        int    // informational; sizes the WICP arena slot
}

// NewLaunchDescriptor validates global/local/offset vectors and derives
// NumGroups and NumWorkItems.
func NewLaunchDescriptor(workDim int, global, local, offset Vec, kernel KernelFunc) (*LaunchDescriptor, error) {
	if workDim < 1 || workDim > MaxWorkDims {
		return nil, errors.Errorf("workgroup: work_dim %d out of range [1,%d]", workDim, MaxWorkDims)
	}
	if kernel == nil {
		return nil, errors.New("workgroup: kernel must not be nil")
	}
	d := &LaunchDescriptor{
		WorkDim:          workDim,
		GlobalWorkSize:   global,
		LocalWorkSize:    local,
		GlobalWorkOffset: offset,
		Kernel:           kernel,
		StackSize:        64 * 1024,
	}
	d.NumWorkItems = 1
	for i := 0; i < workDim; i++ {
		if global[i] == 0 {
			return nil, errors.Errorf("workgroup: global_work_size[%d] must be nonzero", i)
		}
		if local[i] == 0 {
			return nil, errors.Errorf("workgroup: local_work_size[%d] must be nonzero", i)
		}
		if global[i]%local[i] != 0 {
			return nil, errors.Errorf("workgroup: global_work_size[%d]=%d not a multiple of local_work_size[%d]=%d", i, global[i], i, local[i])
		}
		d.NumGroups[i] = global[i] / local[i]
		d.NumWorkItems *= local[i]
	}
	for i := workDim; i < MaxWorkDims; i++ {
		d.LocalWorkSize[i] = 1
		d.NumGroups[i] = 1
	}
	return d, nil
}

// Validate re-checks invariants a caller may have mutated after construction.
func (d *LaunchDescriptor) Validate() error {
	if d.WorkDim < 1 || d.WorkDim > MaxWorkDims {
		return errors.Errorf("workgroup: work_dim %d out of range [1,%d]", d.WorkDim, MaxWorkDims)
	}
	if d.Kernel == nil {
		return errors.New("workgroup: kernel must not be nil")
	}
	want := uint64(1)
	for i := 0; i < d.WorkDim; i++ {
		if d.LocalWorkSize[i] == 0 || d.GlobalWorkSize[i]%d.LocalWorkSize[i] != 0 {
			return errors.Errorf("workgroup: local_work_size[%d] does not evenly divide global_work_size[%d]", i, i)
		}
		want *= d.LocalWorkSize[i]
	}
	if want != d.NumWorkItems {
		return errors.Errorf("workgroup: NumWorkItems %d inconsistent with local_work_size", d.NumWorkItems)
	}
	return nil
}

// totalGroups returns the number of work-groups in the NDRange.
func (d *LaunchDescriptor) totalGroups() uint64 {
	n := uint64(1)
	for i := 0; i < d.WorkDim; i++ {
		n *= d.NumGroups[i]
	}
	return n
}

// incVec advances id to its lexicographic successor within [0, bound) for
// each dimension < workDim, carrying between dimensions the way an odometer
// does: dimension 0 is the fastest-varying.
func incVec(workDim int, id Vec, bound Vec) Vec {
	next := id
	for i := 0; i < workDim; i++ {
		next[i]++
		if next[i] < bound[i] {
			return next
		}
		next[i] = 0
	}
	return next
}

// groupIndexForLinear decomposes a linear work-group number into a group
// index vector, row-major with dimension 0 fastest-varying.
func groupIndexForLinear(d *LaunchDescriptor, linear uint64) Vec {
	var idx Vec
	for i := 0; i < d.WorkDim; i++ {
		idx[i] = linear % d.NumGroups[i]
		linear /= d.NumGroups[i]
	}
	return idx
}
