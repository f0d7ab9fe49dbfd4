package workgroup

// WorkItem is the per-work-item handle passed to kernel code. It is the
// built-in dispatch surface: every get_* accessor and Barrier hang off it,
// playing the role the thread-local "current work-group" plays in a
// compiled-kernel ABI. Because kernels here are Go closures rather than
// JIT'd code calling fixed symbol addresses, the context can simply be
// passed as a parameter instead of read from thread-local storage.
type WorkItem struct {
	group   *groupState
	localID Vec
	linear  uint64
}

// WorkDim returns the number of dimensions this launch uses.
func (wi *WorkItem) WorkDim() uint32 {
	return uint32(wi.group.desc.WorkDim)
}

// dimOK reports whether dimindx addresses a dimension this launch actually
// uses. The reference implementation this package is modeled on compares
// with > instead of >=, which accepts one dimension too many; this is the
// fixed comparison.
func (wi *WorkItem) dimOK(dimindx uint32) bool {
	return dimindx < uint32(wi.group.desc.WorkDim)
}

// GlobalID returns the work-item's global id along dimindx, or 0 if
// dimindx names a dimension outside work_dim.
func (wi *WorkItem) GlobalID(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 0
	}
	g := wi.group
	return g.index[dimindx]*g.desc.LocalWorkSize[dimindx] + wi.localID[dimindx] + g.desc.GlobalWorkOffset[dimindx]
}

// LocalID returns the work-item's id within its work-group along dimindx.
func (wi *WorkItem) LocalID(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 0
	}
	return wi.localID[dimindx]
}

// GlobalSize returns the total number of work-items along dimindx across
// the whole NDRange.
func (wi *WorkItem) GlobalSize(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 1
	}
	return wi.group.desc.GlobalWorkSize[dimindx]
}

// LocalSize returns the work-group size along dimindx.
func (wi *WorkItem) LocalSize(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 1
	}
	return wi.group.desc.LocalWorkSize[dimindx]
}

// GlobalOffset returns the global work offset along dimindx.
func (wi *WorkItem) GlobalOffset(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 0
	}
	return wi.group.desc.GlobalWorkOffset[dimindx]
}

// NumGroups returns the number of work-groups along dimindx.
func (wi *WorkItem) NumGroups(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 1
	}
	return wi.group.desc.NumGroups[dimindx]
}

// GroupID returns this work-item's work-group index along dimindx.
func (wi *WorkItem) GroupID(dimindx uint32) uint64 {
	if !wi.dimOK(dimindx) {
		return 0
	}
	return wi.group.index[dimindx]
}

// Linear returns the work-item's row-major linear index within its
// work-group, with dimension 0 fastest-varying.
func (wi *WorkItem) Linear() uint64 {
	return wi.linear
}

// KernelName returns the name of the kernel this work-item is running, for
// diagnostics. Empty if the launch descriptor was built without one.
func (wi *WorkItem) KernelName() string {
	return wi.group.desc.Name
}

// Barrier blocks the calling work-item until every other work-item in the
// same work-group has also called Barrier (or finished), then returns. All
// writes a work-item performed before calling Barrier become visible to
// every other work-item in the group after that work-item's own call to
// Barrier returns, because each handoff happens over a channel send/receive
// pair.
//
// Barrier must be called the same number of times, in the same relative
// position, by every work-item in the group; if work-items take divergent
// paths and the first call to Barrier across the whole group comes from a
// work-item other than 0, it returns ErrDivergentBarrier.
func (wi *WorkItem) Barrier() error {
	return wi.group.barrier(wi)
}
