package workgroup

import (
	"unsafe"

	"github.com/pkg/errors"
)

// contextHeader is the fixed-size record the context pool keeps per
// work-item slot. Initialized distinguishes a slot that has never held a
// work-item (zero, since fresh mmap/make pages are zeroed by the OS) from
// one that has.
type contextHeader struct {
	Initialized uint32
	_           uint32 // pad to keep LocalID 8-byte aligned
	LocalID     Vec
}

const headerSize = int(unsafe.Sizeof(contextHeader{}))

// WorkGroupArenaGrowthFactor over-allocates a pool's backing region beyond
// the requesting work-group's exact size, so a subsequent, slightly larger
// work-group in the same launch family does not force an immediate
// reallocation.
const WorkGroupArenaGrowthFactor = 1.25

// ContextPool is the Work-Item Context Pool: a single contiguous byte
// region sized, with WorkGroupArenaGrowthFactor headroom, for the largest
// work-group the owning worker has needed so far, and reused across
// work-groups so that only a work-group that outgrows it, or that needs a
// different slot size, forces a fresh allocation.
//
// The channels and goroutines that actually drive work-item execution live
// outside this region (Go gives no way to run a goroutine's stack out of an
// arbitrary byte slice); the pool instead models the literal memory-layout
// contract described for the system this package mirrors, and its
// allocation counter is what the "arena reuse" behavior is tested against.
type ContextPool struct {
	a        arena
	slotSize int
	numSlots int // slots the region is actually sized to hold
	inUse    int // slots the current work-group requested
}

// NewContextPool returns an empty pool. Call Ensure before first use.
func NewContextPool() *ContextPool {
	return &ContextPool{a: newArena()}
}

// Ensure grows the pool's backing region, if needed, to hold numSlots
// headers each with stackSize bytes of slack. It is a no-op if the pool
// already has at least this much capacity with the same slot size.
func (p *ContextPool) Ensure(numSlots, stackSize int) error {
	if numSlots <= 0 {
		return errors.New("workgroup: numSlots must be positive")
	}
	slotSize := headerSize + stackSize
	if p.slotSize == slotSize && p.numSlots >= numSlots {
		p.inUse = numSlots
		return nil
	}
	grown := int(float64(numSlots) * WorkGroupArenaGrowthFactor)
	if _, err := p.a.ensure(grown * slotSize); err != nil {
		return err
	}
	p.slotSize = slotSize
	p.numSlots = grown
	p.inUse = numSlots
	return nil
}

// Reset releases the pool's backing region. The next Ensure call allocates
// fresh.
func (p *ContextPool) Reset() {
	p.a.release()
	p.slotSize = 0
	p.numSlots = 0
	p.inUse = 0
}

// Allocations reports how many times the pool obtained a fresh region from
// the OS, as opposed to reusing the one it already had.
func (p *ContextPool) Allocations() int {
	return p.a.allocations()
}
