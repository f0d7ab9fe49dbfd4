package ocl

import (
	"github.com/go-ocl/oclcpu/workgroup"
)

// ArgKind distinguishes how a kernel argument slot is bound.
type ArgKind int

const (
	// ArgValue is a plain value argument (a scalar, passed by copy).
	ArgValue ArgKind = iota
	// ArgBuffer is a DevicePtr argument (cl_mem-equivalent).
	ArgBuffer
	// ArgLocal reserves size bytes of work-group local memory; no value
	// is bound, mirroring a __local kernel parameter.
	ArgLocal
	// ArgImage is an *Image argument, bound the way a cl_mem created with
	// an image format is.
	ArgImage
)

// Arg is one bound kernel argument, set through Kernel.SetArg.
type Arg struct {
	Kind  ArgKind
	Value interface{}
	Size  int
}

// NativeFunc is a kernel's host-side body. It is called once per
// work-item, the same way workgroup.KernelFunc is, but additionally
// receives the kernel's currently bound arguments so one NativeFunc can
// back a Kernel that gets SetArg'd differently between launches.
type NativeFunc func(wi *workgroup.WorkItem, args []Arg)

// Program is a named collection of kernels, the way a cl_program groups
// the entry points compiled from one source module. This module has no
// compiler: a Program is just a registry populated by AddKernel.
type Program struct {
	Name    string
	kernels map[string]*Kernel
}

// NewProgram creates an empty, named program.
func NewProgram(name string) *Program {
	return &Program{Name: name, kernels: make(map[string]*Kernel)}
}

// AddKernel registers fn under name and returns the Kernel handle used to
// bind arguments and launch it.
func (p *Program) AddKernel(name string, fn NativeFunc) *Kernel {
	k := &Kernel{
		Name:            name,
		program:         p,
		native:          fn,
		preferredWGSize: workgroup.Vec{DefaultWorkGroupSize, 1, 1},
		privateMemSize:  DefaultStackSlack,
	}
	p.kernels[name] = k
	return k
}

// Kernel looks up a previously registered kernel by name, the way
// clCreateKernel resolves an entry point out of a cl_program.
func (p *Program) Kernel(name string) (*Kernel, error) {
	k, ok := p.kernels[name]
	if !ok {
		return nil, NewInvalidArgError("Program.Kernel", "unknown kernel: "+name)
	}
	return k, nil
}

// Kernel is a launchable entry point with bound arguments, mirroring
// cl_kernel. A single Kernel can be reused across many launches; SetArg
// mutates the bound arguments in place, the same way clSetKernelArg does.
type Kernel struct {
	Name    string
	program *Program
	native  NativeFunc

	args            []Arg
	preferredWGSize workgroup.Vec
	localMemSize    uint64
	privateMemSize  uint64
}

// SetArg binds value to argument index, growing the argument list as
// needed. Passing a nil value with a non-zero size reserves local
// memory for a __local-style argument instead of binding a value.
func (k *Kernel) SetArg(index int, value interface{}, size int) error {
	if index < 0 {
		return NewInvalidArgError("Kernel.SetArg", "negative argument index")
	}
	for len(k.args) <= index {
		k.args = append(k.args, Arg{})
	}
	switch {
	case value == nil && size > 0:
		k.args[index] = Arg{Kind: ArgLocal, Size: size}
	case isDevicePtr(value):
		k.args[index] = Arg{Kind: ArgBuffer, Value: value, Size: size}
	case isImage(value):
		k.args[index] = Arg{Kind: ArgImage, Value: value, Size: size}
	default:
		k.args[index] = Arg{Kind: ArgValue, Value: value, Size: size}
	}
	return nil
}

// Arg returns the currently bound value of argument index.
func (k *Kernel) Arg(index int) (Arg, error) {
	if index < 0 || index >= len(k.args) {
		return Arg{}, NewInvalidArgError("Kernel.Arg", "argument index out of range")
	}
	return k.args[index], nil
}

// SetWorkGroupSize overrides the kernel's preferred local work size, the
// value LaunchKernel falls back to when a launch omits an explicit one.
func (k *Kernel) SetWorkGroupSize(size workgroup.Vec) {
	k.preferredWGSize = size
}

// WorkGroupSize returns the kernel's preferred local work size.
func (k *Kernel) WorkGroupSize() workgroup.Vec {
	return k.preferredWGSize
}

// SetLocalMemSize overrides the work-group local memory this kernel
// requires beyond any __local arguments bound through SetArg.
func (k *Kernel) SetLocalMemSize(size uint64) {
	k.localMemSize = size
}

// SetPrivateMemSize overrides the per-work-item stack slack this kernel
// needs; it feeds workgroup.LaunchDescriptor.StackSize.
func (k *Kernel) SetPrivateMemSize(size uint64) {
	k.privateMemSize = size
}

// PrivateMemSize returns the per-work-item stack slack hint.
func (k *Kernel) PrivateMemSize() uint64 {
	return k.privateMemSize
}

// buildLaunchDescriptor turns the kernel's bound arguments and launch
// shape into a workgroup.LaunchDescriptor, binding this kernel's
// NativeFunc (plus its argument snapshot) as the workgroup.KernelFunc
// every work-item runs.
func (k *Kernel) buildLaunchDescriptor(workDim int, global, local, offset workgroup.Vec) (*workgroup.LaunchDescriptor, error) {
	if local == (workgroup.Vec{}) {
		local = k.preferredWGSize
	}
	args := make([]Arg, len(k.args))
	copy(args, k.args)
	localMem := k.localMemSize
	for _, a := range args {
		if a.Kind == ArgLocal {
			localMem += uint64(a.Size)
		}
	}
	fn := func(wi *workgroup.WorkItem) {
		k.native(wi, args)
	}
	desc, err := workgroup.NewLaunchDescriptor(workDim, global, local, offset, fn)
	if err != nil {
		return nil, NewInvalidArgError("Kernel.buildLaunchDescriptor", err.Error())
	}
	if desc.NumWorkItems > MaxWorkGroupSize {
		return nil, NewInvalidArgError("Kernel.buildLaunchDescriptor", "work-group size exceeds MaxWorkGroupSize")
	}
	desc.Name = k.Name
	desc.LocalMemSize = localMem
	if k.privateMemSize > 0 {
		desc.StackSize = int(k.privateMemSize)
	}
	return desc, nil
}

func isDevicePtr(v interface{}) bool {
	_, ok := v.(DevicePtr)
	return ok
}

func isImage(v interface{}) bool {
	_, ok := v.(*Image)
	return ok
}
