package ocl

import (
	"sync"
	"sync/atomic"

	"github.com/go-ocl/oclcpu/workgroup"
)

// Context groups a device with the memory pool and streams used to talk
// to it. It plays the role of an OpenCL cl_context bound to a single
// device.
type Context struct {
	device        *CPUDevice
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
}

// Stream is an in-order sequence of operations submitted to a device.
// Operations within a stream run in the order they were submitted;
// operations on different streams may run concurrently. This is the
// same role an OpenCL command queue plays, and the two terms are used
// interchangeably in this module's documentation.
type Stream struct {
	id     int
	ctx    *Context
	tasks  chan func()
	done   chan struct{}
	wg     sync.WaitGroup
	errBox streamErrBox
}

// NewContext creates a context bound to device.
func NewContext(device *CPUDevice) *Context {
	ctx := &Context{
		device:  device,
		streams: make(map[int]*Stream),
		memory:  NewMemoryPool(),
	}
	ctx.defaultStream = ctx.CreateStream()
	return ctx
}

// Destroy releases ctx's streams. The backing device is left running,
// since a device may be shared by more than one context.
func (ctx *Context) Destroy() {
	for _, s := range ctx.streams {
		close(s.tasks)
	}
}

// CreateStream creates a new command queue bound to ctx's device.
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	s := &Stream{
		id:    id,
		ctx:   ctx,
		tasks: make(chan func(), 1000),
		done:  make(chan struct{}),
	}
	go s.worker()
	ctx.streams[id] = s
	return s
}

// CreateCommandQueue is an alias for CreateStream for callers that prefer
// OpenCL terminology.
func (ctx *Context) CreateCommandQueue() *Stream {
	return ctx.CreateStream()
}

// LaunchKernel enqueues kernel on ctx's default stream with the given
// NDRange shape, returning an event that completes when every work-group
// has finished.
func (ctx *Context) LaunchKernel(kernel *Kernel, workDim int, global, local, offset workgroup.Vec) (*KernelEvent, error) {
	return ctx.defaultStream.LaunchKernel(kernel, workDim, global, local, offset)
}

// Synchronize blocks until every stream created under ctx has drained
// its queued work, combining every stream's error (if any) with
// multierr so a caller sees every failure, not just the first.
func (ctx *Context) Synchronize() error {
	var combined error
	for _, s := range ctx.streams {
		if err := s.Synchronize(); err != nil {
			combined = combineErrors(combined, err)
		}
	}
	return combined
}

// worker drains tasks submitted to the stream, one at a time and in
// order.
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// streamErrBox is set by LaunchKernel's queued task so Synchronize
// can report the failure of an asynchronous task it otherwise has no
// direct handle on.
type streamErrBox struct {
	mu  sync.Mutex
	err error
}

func (b *streamErrBox) set(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

func (b *streamErrBox) get() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Synchronize waits for every task submitted to the stream so far to
// finish, and returns the first error any of them reported.
func (s *Stream) Synchronize() error {
	s.wg.Wait()
	return s.errBox.get()
}

// Submit adds task to the stream's queue.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// LaunchKernel enqueues kernel on s with the given NDRange shape. The
// enqueue itself is synchronous (so a malformed launch is rejected
// immediately); kernel execution runs asynchronously on s's device.
func (s *Stream) LaunchKernel(kernel *Kernel, workDim int, global, local, offset workgroup.Vec) (*KernelEvent, error) {
	desc, err := kernel.buildLaunchDescriptor(workDim, global, local, offset)
	if err != nil {
		return nil, err
	}
	ev := newKernelEvent(kernel, desc)
	s.Submit(func() {
		if err := s.ctx.device.Submit(ev); err != nil {
			ev.Complete(err)
			s.errBox.set(err)
			return
		}
		s.errBox.set(ev.Wait())
	})
	return ev, nil
}
