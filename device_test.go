package ocl

import (
	"testing"

	"github.com/go-ocl/oclcpu/workgroup"
)

func newTestDeviceAndContext(t *testing.T) (*CPUDevice, *Context) {
	t.Helper()
	device := NewCPUDevice(2)
	ctx := NewContext(device)
	t.Cleanup(func() {
		ctx.Destroy()
		device.Close()
	})
	return device, ctx
}

func TestCPUDeviceSubmitRunsKernel(t *testing.T) {
	_, ctx := newTestDeviceAndContext(t)

	ptr, err := ctx.Malloc(16 * 4)
	if err != nil {
		t.Fatalf("Malloc failed: %v", err)
	}
	defer ctx.Free(ptr)

	prog := NewProgram("p")
	kernel := prog.AddKernel("k", func(wi *workgroup.WorkItem, args []Arg) {
		idx := wi.GlobalID(0)
		args[0].Value.(DevicePtr).Float32()[idx] = float32(idx)
	})
	kernel.SetArg(0, ptr, 0)

	ev, err := ctx.LaunchKernel(kernel, 1, workgroup.Vec{16}, workgroup.Vec{4}, workgroup.Vec{})
	if err != nil {
		t.Fatalf("LaunchKernel failed: %v", err)
	}
	if err := ev.Wait(); err != nil {
		t.Fatalf("kernel execution failed: %v", err)
	}

	out := ptr.Float32()
	for i := 0; i < 16; i++ {
		if out[i] != float32(i) {
			t.Errorf("out[%d] = %f, want %f", i, out[i], float32(i))
		}
	}
}

func TestContextSynchronizeCombinesStreamErrors(t *testing.T) {
	_, ctx := newTestDeviceAndContext(t)

	failing := NewProgram("fail").AddKernel("fail", func(wi *workgroup.WorkItem, args []Arg) {
		panic("boom")
	})

	s1 := ctx.CreateStream()
	s2 := ctx.CreateStream()

	ev1, err := s1.LaunchKernel(failing, 1, workgroup.Vec{4}, workgroup.Vec{4}, workgroup.Vec{})
	if err != nil {
		t.Fatalf("LaunchKernel on s1 failed: %v", err)
	}
	ev2, err := s2.LaunchKernel(failing, 1, workgroup.Vec{4}, workgroup.Vec{4}, workgroup.Vec{})
	if err != nil {
		t.Fatalf("LaunchKernel on s2 failed: %v", err)
	}
	ev1.Wait()
	ev2.Wait()

	if err := ctx.Synchronize(); err == nil {
		t.Fatal("expected Synchronize to report the panicking kernel")
	}
}

func TestCPUDeviceSubmitRejectsInvalidDescriptor(t *testing.T) {
	device, _ := newTestDeviceAndContext(t)
	ev := newKernelEvent(&Kernel{Name: "bad"}, nil)
	// A zero-value descriptor fails Validate's work_dim range check first.
	ev.Descriptor = &workgroup.LaunchDescriptor{}
	if err := device.Submit(ev); err == nil {
		t.Fatal("expected Submit to reject an invalid launch descriptor")
	}
}
