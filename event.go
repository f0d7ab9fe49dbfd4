package ocl

import (
	"sync"

	"go.uber.org/multierr"

	"github.com/go-ocl/oclcpu/workgroup"
)

// Event tracks the completion of an asynchronous operation, the same
// role cl_event plays for clEnqueue* calls. Callers either Wait for it
// or register a callback with OnComplete.
type Event struct {
	mu        sync.Mutex
	done      chan struct{}
	doneOnce  sync.Once
	err       error
	callbacks []func(error)
}

// NewEvent creates an incomplete event.
func NewEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// Complete marks the event finished with err (nil on success) and runs
// every callback registered with OnComplete. Complete is idempotent;
// only the first call has any effect.
func (e *Event) Complete(err error) {
	e.mu.Lock()
	select {
	case <-e.done:
		e.mu.Unlock()
		return
	default:
	}
	e.err = err
	callbacks := e.callbacks
	e.callbacks = nil
	e.doneOnce.Do(func() { close(e.done) })
	e.mu.Unlock()

	for _, cb := range callbacks {
		cb(err)
	}
}

// Wait blocks until the event completes and returns its error, if any.
func (e *Event) Wait() error {
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// OnComplete registers cb to run when the event completes. If the event
// has already completed, cb runs immediately on the calling goroutine.
func (e *Event) OnComplete(cb func(error)) {
	e.mu.Lock()
	select {
	case <-e.done:
		err := e.err
		e.mu.Unlock()
		cb(err)
		return
	default:
	}
	e.callbacks = append(e.callbacks, cb)
	e.mu.Unlock()
}

// KernelEvent tracks one kernel launch: the NDRange descriptor submitted
// to a device plus the resulting Event.
type KernelEvent struct {
	*Event
	Kernel     *Kernel
	Descriptor *workgroup.LaunchDescriptor
}

func newKernelEvent(kernel *Kernel, desc *workgroup.LaunchDescriptor) *KernelEvent {
	return &KernelEvent{Event: NewEvent(), Kernel: kernel, Descriptor: desc}
}

// Buffer is a cl_mem-equivalent device allocation. SubBuffer regions
// carved out of it must respect the device's memory alignment, mirroring
// clCreateSubBuffer's CL_MISALIGNED_SUB_BUFFER_OFFSET check.
type Buffer struct {
	Ptr DevicePtr
}

// NewBuffer wraps an existing device allocation as a Buffer.
func NewBuffer(ptr DevicePtr) *Buffer {
	return &Buffer{Ptr: ptr}
}

// SubBuffer is a byte-offset view into a parent Buffer.
type SubBuffer struct {
	Parent *Buffer
	Offset int
	Size   int
}

// CreateSubBuffer carves out [offset, offset+size) of b, rejecting an
// offset that does not satisfy alignMask's required alignment. Use
// MemoryAlignment-1 for the device's default alignment.
func (b *Buffer) CreateSubBuffer(offset, size int, alignMask uint64) (*SubBuffer, error) {
	sb := &SubBuffer{Parent: b, Offset: offset, Size: size}
	if err := sb.checkAlignment(alignMask); err != nil {
		return nil, err
	}
	if offset < 0 || offset+size > b.Ptr.Size() {
		return nil, NewInvalidArgError("CreateSubBuffer", "sub-buffer range exceeds parent buffer")
	}
	return sb, nil
}

// checkAlignment reports whether the sub-buffer's offset satisfies the
// given alignment mask. The mask's low-order bits select the address
// bits that must be zero, so membership uses AND; the original
// implementation this module is modeled on used OR here, which always
// evaluates true for a non-zero mask and so accepted every offset.
func (sb *SubBuffer) checkAlignment(alignMask uint64) error {
	if uint64(sb.Offset)&alignMask != 0 {
		return NewInvalidArgError("checkAlignment", "sub-buffer offset is not aligned")
	}
	return nil
}

// DevicePtr returns a DevicePtr view of the sub-buffer, offset from its
// parent.
func (sb *SubBuffer) DevicePtr() DevicePtr {
	return sb.Parent.Ptr.Offset(sb.Offset)
}

// RWBufferEvent tracks an asynchronous buffer read or write, the
// enqueue-time counterpart of clEnqueueReadBuffer / clEnqueueWriteBuffer.
type RWBufferEvent struct {
	*Event
	Buffer  *SubBuffer
	IsWrite bool
}

// NewRWBufferEvent validates buf's alignment and returns a pending event
// for the transfer; the caller completes it once the copy finishes.
func NewRWBufferEvent(buf *SubBuffer, isWrite bool) (*RWBufferEvent, error) {
	if err := buf.checkAlignment(MemoryAlignment - 1); err != nil {
		return nil, err
	}
	return &RWBufferEvent{Event: NewEvent(), Buffer: buf, IsWrite: isWrite}, nil
}

// combineErrors merges two errors using multierr, so a caller that waits
// on several streams sees every failure rather than only the first.
func combineErrors(a, b error) error {
	return multierr.Append(a, b)
}
