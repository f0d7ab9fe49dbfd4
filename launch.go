// Package-level convenience wrappers around the default context, for
// callers that don't need more than one context.
//
// Example usage:
//
//	prog := ocl.NewProgram("vecadd")
//	kernel := prog.AddKernel("add", func(wi *workgroup.WorkItem, args []ocl.Arg) {
//		i := wi.GlobalID(0)
//		a := args[0].Value.(ocl.DevicePtr).Float32()
//		b := args[1].Value.(ocl.DevicePtr).Float32()
//		c := args[2].Value.(ocl.DevicePtr).Float32()
//		c[i] = a[i] + b[i]
//	})
//	kernel.SetArg(0, d_a, 0)
//	kernel.SetArg(1, d_b, 0)
//	kernel.SetArg(2, d_c, 0)
//	ev, _ := ocl.LaunchKernel(kernel, 1, workgroup.Vec{n}, workgroup.Vec{256}, workgroup.Vec{})
//	ev.Wait()
package ocl

import (
	"github.com/go-ocl/oclcpu/workgroup"
)

// Malloc allocates device memory of the specified size in bytes on the
// default context.
func Malloc(size int) (DevicePtr, error) {
	ensureDefaults()
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc. It is safe to call
// Free with a zero-value DevicePtr.
func Free(ptr DevicePtr) error {
	ensureDefaults()
	return defaultContext.Free(ptr)
}

// Memcpy copies memory between host and device on the default context.
func Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	ensureDefaults()
	return defaultContext.Memcpy(dst, src, size, kind)
}

// LaunchKernel enqueues kernel on the default context's default stream.
func LaunchKernel(kernel *Kernel, workDim int, global, local, offset workgroup.Vec) (*KernelEvent, error) {
	ensureDefaults()
	return defaultContext.LaunchKernel(kernel, workDim, global, local, offset)
}

// Synchronize waits for every stream on the default context to drain.
func Synchronize() error {
	ensureDefaults()
	return defaultContext.Synchronize()
}

// ForEach launches a one-dimensional kernel that calls fn once per
// element of data, passing each element's index and a pointer into the
// buffer.
func ForEach(data DevicePtr, size int, fn func(idx int, val *float32)) error {
	ensureDefaults()
	prog := NewProgram("foreach")
	kernel := prog.AddKernel("foreach", func(wi *workgroup.WorkItem, args []Arg) {
		idx := int(wi.GlobalID(0))
		if idx >= size {
			return
		}
		slice := args[0].Value.(DevicePtr).Float32()
		fn(idx, &slice[idx])
	})
	kernel.SetArg(0, data, 0)
	return runOneD(kernel, size)
}

// Map applies fn to every element of input, writing results into output.
// input and output must be the same size and must not overlap.
func Map(input, output DevicePtr, size int, fn func(float32) float32) error {
	ensureDefaults()
	prog := NewProgram("map")
	kernel := prog.AddKernel("map", func(wi *workgroup.WorkItem, args []Arg) {
		idx := int(wi.GlobalID(0))
		if idx >= size {
			return
		}
		in := args[0].Value.(DevicePtr).Float32()
		out := args[1].Value.(DevicePtr).Float32()
		out[idx] = fn(in[idx])
	})
	kernel.SetArg(0, input, 0)
	kernel.SetArg(1, output, 0)
	return runOneD(kernel, size)
}

// Reduce combines size elements of data with op, sequentially on the
// calling goroutine, in index order; no kernel is launched.
func Reduce(data DevicePtr, size int, op func(a, b float32) float32) (float32, error) {
	if size <= 0 {
		return 0, NewInvalidArgError("Reduce", "size must be positive")
	}
	slice := data.Float32()[:size]
	result := slice[0]
	for i := 1; i < size; i++ {
		result = op(result, slice[i])
	}
	return result, nil
}

func runOneD(kernel *Kernel, size int) error {
	local := DefaultWorkGroupSize
	if size < local {
		local = size
	}
	if local == 0 {
		local = 1
	}
	global := ((size + local - 1) / local) * local
	ev, err := LaunchKernel(kernel, 1, workgroup.Vec{uint64(global)}, workgroup.Vec{uint64(local)}, workgroup.Vec{})
	if err != nil {
		return err
	}
	return ev.Wait()
}
