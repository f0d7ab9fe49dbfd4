//go:build unix

package workgroup

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapArena backs a ContextPool with an anonymous, executable mapping, the
// same protection bits the native work-item stacks it replaces would have
// carried. Go kernel functions never execute out of it; it exists so the
// pool's memory behaves like the region it models and so Allocations()
// reflects real mmap/munmap traffic.
type mmapArena struct {
	region []byte
	allocs int
}

func newArena() arena {
	return &mmapArena{}
}

func (a *mmapArena) ensure(size int) ([]byte, error) {
	if a.region != nil && len(a.region) >= size {
		return a.region, nil
	}
	if a.region != nil {
		unix.Munmap(a.region)
		a.region = nil
	}
	region, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrap(err, "workgroup: mmap context pool arena")
	}
	a.region = region
	a.allocs++
	return a.region, nil
}

func (a *mmapArena) release() {
	if a.region != nil {
		unix.Munmap(a.region)
		a.region = nil
	}
	a.allocs = 0
}

func (a *mmapArena) allocations() int {
	return a.allocs
}
