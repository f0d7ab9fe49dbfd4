package workgroup

import "testing"

func TestNewLaunchDescriptorComputesGroupsAndWorkItems(t *testing.T) {
	d, err := NewLaunchDescriptor(2, Vec{8, 4, 1}, Vec{4, 2, 1}, Vec{}, func(*WorkItem) {})
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	if d.NumGroups[0] != 2 || d.NumGroups[1] != 2 {
		t.Fatalf("NumGroups = %v, want [2 2]", d.NumGroups)
	}
	if d.NumWorkItems != 8 {
		t.Fatalf("NumWorkItems = %d, want 8", d.NumWorkItems)
	}
}

func TestNewLaunchDescriptorRejectsNonDivisibleSizes(t *testing.T) {
	_, err := NewLaunchDescriptor(1, Vec{10}, Vec{3}, Vec{}, func(*WorkItem) {})
	if err == nil {
		t.Fatal("expected error for non-divisible global/local size")
	}
}

func TestNewLaunchDescriptorRejectsBadWorkDim(t *testing.T) {
	if _, err := NewLaunchDescriptor(0, Vec{}, Vec{}, Vec{}, func(*WorkItem) {}); err == nil {
		t.Fatal("expected error for work_dim 0")
	}
	if _, err := NewLaunchDescriptor(4, Vec{}, Vec{}, Vec{}, func(*WorkItem) {}); err == nil {
		t.Fatal("expected error for work_dim > 3")
	}
}

func TestIncVecCarries(t *testing.T) {
	bound := Vec{2, 2, 1}
	id := Vec{1, 0, 0}
	next := incVec(2, id, bound)
	if next != (Vec{0, 1, 0}) {
		t.Fatalf("incVec carry = %v, want [0 1 0]", next)
	}
}

func TestGroupIndexForLinearRowMajor(t *testing.T) {
	d, err := NewLaunchDescriptor(2, Vec{6, 4}, Vec{3, 2}, Vec{}, func(*WorkItem) {})
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	// NumGroups = [2, 2]; linear 3 should be (1,1) with dim0 fastest-varying.
	idx := groupIndexForLinear(d, 3)
	if idx != (Vec{1, 1, 0}) {
		t.Fatalf("groupIndexForLinear(3) = %v, want [1 1 0]", idx)
	}
}
