package workgroup

import "testing"

func TestBuiltinTableMatchesWorkItemMethods(t *testing.T) {
	d, err := NewLaunchDescriptor(2, Vec{4, 4}, Vec{2, 2}, Vec{1, 2}, func(*WorkItem) {})
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	g := newGroupState(d, Vec{1, 0}, NewContextPool())
	wi := &WorkItem{group: g, localID: Vec{1, 0}, linear: 1}

	table := BuiltinTable(wi)

	if got := table["get_work_dim"].(func() uint32)(); got != wi.WorkDim() {
		t.Errorf("get_work_dim = %d, want %d", got, wi.WorkDim())
	}
	if got := table["get_global_id"].(func(uint32) uint64)(0); got != wi.GlobalID(0) {
		t.Errorf("get_global_id(0) = %d, want %d", got, wi.GlobalID(0))
	}
	if got := table["get_local_id"].(func(uint32) uint64)(1); got != wi.LocalID(1) {
		t.Errorf("get_local_id(1) = %d, want %d", got, wi.LocalID(1))
	}
	if got := table["get_group_id"].(func(uint32) uint64)(0); got != wi.GroupID(0) {
		t.Errorf("get_group_id(0) = %d, want %d", got, wi.GroupID(0))
	}
}

func TestBuiltinTableImageRoundTrip(t *testing.T) {
	d, err := NewLaunchDescriptor(1, Vec{1}, Vec{1}, Vec{}, func(*WorkItem) {})
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	g := newGroupState(d, Vec{}, NewContextPool())
	wi := &WorkItem{group: g, linear: 0}
	img := &ImageRef{
		Format: ImageFormat{Order: ChannelRGBA, Type: ChannelUNormInt8},
		Width:  2,
		Height: 2,
		Data:   make([]byte, 2*2*4),
	}

	table := BuiltinTable(wi)
	if got := table["get_image_width"].(func(*ImageRef) int)(img); got != 2 {
		t.Errorf("get_image_width = %d, want 2", got)
	}
	write := table["write_imagef"].(func(*ImageRef, int, int, [4]float32))
	read := table["read_imagef"].(func(*ImageRef, int, int) [4]float32)

	write(img, 1, 0, [4]float32{1, 0.5, 0, 1})
	got := read(img, 1, 0)
	if got[0] != 1 || got[2] != 0 || got[3] != 1 {
		t.Errorf("read_imagef round trip = %v, want [1 ~0.5 0 1]", got)
	}
}

func TestDispatchUnknownNameReturnsNoOpStub(t *testing.T) {
	d, err := NewLaunchDescriptor(1, Vec{4}, Vec{4}, Vec{}, func(*WorkItem) {})
	if err != nil {
		t.Fatalf("NewLaunchDescriptor: %v", err)
	}
	d.Name = "bogus_kernel"
	g := newGroupState(d, Vec{}, NewContextPool())
	wi := &WorkItem{group: g, linear: 0}

	fn, err := Dispatch(wi, "get_image_bogus")
	if err != nil {
		t.Fatalf("Dispatch unknown name error = %v, want nil", err)
	}
	stub, ok := fn.(func(...interface{}))
	if !ok {
		t.Fatalf("Dispatch unknown name returned %T, want func(...interface{})", fn)
	}
	stub(1, "anything", nil) // must not panic
}
