package workgroup

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOneDimensionalLaunchNoBarrier(t *testing.T) {
	const global, local = 8, 4
	out := make([]int64, global)
	kernel := func(wi *WorkItem) {
		out[wi.GlobalID(0)] = int64(wi.GlobalID(0)) * 2
	}
	d, err := NewLaunchDescriptor(1, Vec{global}, Vec{local}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := Run(d, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int64{0, 2, 4, 6, 8, 10, 12, 14}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTwoDimensionalLaunchNoBarrier(t *testing.T) {
	const gx, gy, lx, ly = 4, 4, 2, 2
	out := make([][]int64, gy)
	for i := range out {
		out[i] = make([]int64, gx)
	}
	kernel := func(wi *WorkItem) {
		x, y := wi.GlobalID(0), wi.GlobalID(1)
		out[y][x] = int64(x + y*gx)
	}
	d, err := NewLaunchDescriptor(2, Vec{gx, gy}, Vec{lx, ly}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := Run(d, 4); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for y := 0; y < gy; y++ {
		for x := 0; x < gx; x++ {
			want := int64(x + y*gx)
			if out[y][x] != want {
				t.Errorf("out[%d][%d] = %d, want %d", y, x, out[y][x], want)
			}
		}
	}
}

func TestSingleGroupBarrierExchange(t *testing.T) {
	const n = 4
	tmp := make([]int64, n)
	out := make([]int64, n)
	kernel := func(wi *WorkItem) {
		lid := wi.LocalID(0)
		tmp[lid] = int64(lid)
		if err := wi.Barrier(); err != nil {
			t.Errorf("Barrier: %v", err)
			return
		}
		out[wi.GlobalID(0)] = tmp[(lid+1)%n]
	}
	d, err := NewLaunchDescriptor(1, Vec{n}, Vec{n}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	exec := NewExecutor()
	if err := exec.Run(d, Vec{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int64{1, 2, 3, 0}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiGroupBarrierIsolation(t *testing.T) {
	const groups, local = 3, 4
	out := make([]int64, groups*local)
	tmp := make([][]int64, groups) // __local memory: one instance per work-group
	for g := range tmp {
		tmp[g] = make([]int64, local)
	}
	kernel := func(wi *WorkItem) {
		grp := wi.GroupID(0)
		lid := wi.LocalID(0)
		tmp[grp][lid] = int64(lid) + int64(grp)*100
		if err := wi.Barrier(); err != nil {
			t.Errorf("Barrier: %v", err)
			return
		}
		out[wi.GlobalID(0)] = tmp[grp][(lid+1)%local]
	}
	d, err := NewLaunchDescriptor(1, Vec{groups * local}, Vec{local}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := Run(d, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for g := 0; g < groups; g++ {
		base := int64(g) * 100
		want := []int64{base + 1, base + 2, base + 3, base + 0}
		got := out[g*local : (g+1)*local]
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("group %d mismatch (-want +got):\n%s", g, diff)
		}
	}
}

func TestGlobalOffsetShiftsGlobalIDButNotLocalID(t *testing.T) {
	const global, local, offset = 4, 4, 100
	var gotGlobal, gotLocal []uint64
	var mu sync.Mutex
	kernel := func(wi *WorkItem) {
		mu.Lock()
		gotGlobal = append(gotGlobal, wi.GlobalID(0))
		gotLocal = append(gotLocal, wi.LocalID(0))
		mu.Unlock()
	}
	d, err := NewLaunchDescriptor(1, Vec{global}, Vec{local}, Vec{offset}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := NewExecutor().Run(d, Vec{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	sort.Slice(gotGlobal, func(i, j int) bool { return gotGlobal[i] < gotGlobal[j] })
	sort.Slice(gotLocal, func(i, j int) bool { return gotLocal[i] < gotLocal[j] })
	wantGlobal := []uint64{100, 101, 102, 103}
	wantLocal := []uint64{0, 1, 2, 3}
	if diff := cmp.Diff(wantGlobal, gotGlobal); diff != "" {
		t.Fatalf("global ids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantLocal, gotLocal); diff != "" {
		t.Fatalf("local ids (-want +got):\n%s", diff)
	}
}

func TestSequentialLaunchesReuseArena(t *testing.T) {
	const n = 4
	kernel := func(wi *WorkItem) {
		if err := wi.Barrier(); err != nil {
			t.Errorf("Barrier: %v", err)
		}
	}
	d, err := NewLaunchDescriptor(1, Vec{n}, Vec{n}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	exec := NewExecutor()
	if err := exec.Run(d, Vec{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	allocsAfterFirst := exec.Pool().Allocations()
	if allocsAfterFirst != 1 {
		t.Fatalf("Allocations after first run = %d, want 1", allocsAfterFirst)
	}
	if err := exec.Run(d, Vec{}); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := exec.Pool().Allocations(); got != allocsAfterFirst {
		t.Fatalf("Allocations after second run = %d, want %d (arena should be reused)", got, allocsAfterFirst)
	}
}

func TestBarrierEnteredByNonZeroWorkItemFirstIsDivergent(t *testing.T) {
	const n = 4
	kernel := func(wi *WorkItem) {
		if wi.LocalID(0) == 0 {
			return // work-item 0 never reaches a barrier
		}
		wi.Barrier()
	}
	d, err := NewLaunchDescriptor(1, Vec{n}, Vec{n}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	err = NewExecutor().Run(d, Vec{})
	if err != ErrDivergentBarrier {
		t.Fatalf("Run error = %v, want ErrDivergentBarrier", err)
	}
}

func TestUnevenBarrierCountDoesNotDeadlock(t *testing.T) {
	const n = 4
	kernel := func(wi *WorkItem) {
		wi.Barrier()
		if wi.LocalID(0) == 1 {
			return // work-item 1 finishes after one barrier
		}
		wi.Barrier() // the rest call a second barrier
	}
	d, err := NewLaunchDescriptor(1, Vec{n}, Vec{n}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- NewExecutor().Run(d, Vec{}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked driving a work-item that finished after fewer barriers than its peers")
	}
}

func TestWorkItemIDCoverageIsExactlyOncePerID(t *testing.T) {
	const global, local = 6, 3
	var mu sync.Mutex
	seen := map[[2]uint64]int{}
	kernel := func(wi *WorkItem) {
		mu.Lock()
		seen[[2]uint64{wi.GroupID(0), wi.LocalID(0)}]++
		mu.Unlock()
	}
	d, err := NewLaunchDescriptor(1, Vec{global}, Vec{local}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := Run(d, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != global {
		t.Fatalf("distinct (group,local) pairs = %d, want %d", len(seen), global)
	}
	for k, count := range seen {
		if count != 1 {
			t.Errorf("(group=%d,local=%d) visited %d times, want 1", k[0], k[1], count)
		}
	}
}

func TestDimensionOutOfRangeReturnsIdentityNotPanic(t *testing.T) {
	kernel := func(wi *WorkItem) {
		if wi.GlobalID(2) != 0 {
			t.Errorf("GlobalID(2) = %d, want 0 for a 1-D launch", wi.GlobalID(2))
		}
		if wi.GlobalSize(2) != 1 {
			t.Errorf("GlobalSize(2) = %d, want 1 for a 1-D launch", wi.GlobalSize(2))
		}
	}
	d, err := NewLaunchDescriptor(1, Vec{4}, Vec{4}, Vec{}, kernel)
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if err := NewExecutor().Run(d, Vec{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
