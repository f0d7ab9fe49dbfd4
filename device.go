package ocl

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-ocl/oclcpu/workgroup"
)

// Device represents a compute device capable of running NDRange kernel
// launches. This module implements exactly one kind, CPUDevice, but the
// type is kept separate from its CPU backing so callers can query shared
// fields (ID, Name, TotalMem) without caring how a launch actually runs.
type Device struct {
	ID         int    // Unique device identifier
	Name       string // Human-readable device name
	TotalMem   uint64 // Total available memory in bytes
	NumCores   int    // Number of CPU cores
	MaxThreads int    // Maximum concurrent work-items the device will run at once
}

// CPUDevice is the host-side work-group executor: a persistent pool of
// worker goroutines, each pinned (where the platform supports it) to one
// OS thread and holding its own long-lived workgroup.Executor. Workers
// pull work-groups from whatever launches are currently queued, so a
// worker that keeps seeing the same launch shape reuses its context pool
// arena across work-groups and even across separate launches.
type CPUDevice struct {
	Device

	workers int
	jobs    chan *workgroup.LaunchState
	wg      sync.WaitGroup
	closed  chan struct{}
	once    sync.Once
}

// NewCPUDevice starts a CPUDevice with numWorkers persistent workers. A
// numWorkers value <= 0 defaults to runtime.NumCPU().
func NewCPUDevice(numWorkers int) *CPUDevice {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	d := &CPUDevice{
		Device: Device{
			ID:         0,
			Name:       "CPU",
			TotalMem:   getSystemMemory(),
			NumCores:   runtime.NumCPU(),
			MaxThreads: numWorkers,
		},
		workers: numWorkers,
		jobs:    make(chan *workgroup.LaunchState, numWorkers*4),
		closed:  make(chan struct{}),
	}
	for i := 0; i < numWorkers; i++ {
		d.wg.Add(1)
		go d.runWorker(i)
	}
	return d
}

// runWorker is the body of one persistent outer-tier worker. It pins to
// an OS thread (and, where supported, a CPU) for the lifetime of the
// device, since the context pool arena it owns is only cheap to reuse if
// it keeps running on the same core.
func (d *CPUDevice) runWorker(id int) {
	defer d.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	pinWorkerToCPU(id)

	exec := workgroup.NewExecutor()
	for {
		select {
		case state, ok := <-d.jobs:
			if !ok {
				return
			}
			if state.TakeInstance(exec) && state.HasMore() {
				d.jobs <- state
			}
		case <-d.closed:
			return
		}
	}
}

// Submit enqueues ev's launch descriptor across the device's worker pool
// and returns immediately; ev completes asynchronously. An invalid
// descriptor is rejected synchronously without touching the pool.
func (d *CPUDevice) Submit(ev *KernelEvent) error {
	if err := ev.Descriptor.Validate(); err != nil {
		return NewExecutionError("Submit", "invalid launch descriptor", err)
	}
	state := workgroup.NewLaunchState(ev.Descriptor)
	tickets := d.workers
	if total := int(state.Total()); total < tickets {
		tickets = total
	}
	if tickets < 1 {
		tickets = 1
	}
	for i := 0; i < tickets; i++ {
		d.jobs <- state
	}
	go func() {
		state.Wait()
		var completionErr error
		if err := state.Err(); err != nil {
			completionErr = NewExecutionError("Submit", ev.Kernel.Name, err)
		}
		ev.Complete(completionErr)
	}()
	return nil
}

// Close stops every worker. A closed device must not be submitted to
// again.
func (d *CPUDevice) Close() error {
	d.once.Do(func() { close(d.closed) })
	d.wg.Wait()
	return nil
}

// Info reports descriptive device properties, mirroring the subset of
// clGetDeviceInfo this module supports.
func (d *CPUDevice) Info() DeviceInfo {
	return DeviceInfo{
		Name:             d.Name,
		Vendor:           "go-ocl",
		DriverVersion:    deviceDriverVersion(),
		MaxComputeUnits:  d.NumCores,
		MaxWorkGroupSize: MaxWorkGroupSize,
		MaxWorkItemDims:  MaxWorkDims,
		GlobalMemSize:    d.TotalMem,
		Features:         Features(),
	}
}

// Global runtime state: a single lazily-created default device and
// context, mirroring how cl_platform/cl_device singletons are typically
// looked up by callers that only have one device.
var (
	defaultDevice  *CPUDevice
	defaultContext *Context
	initOnce       sync.Once
)

func ensureDefaults() {
	initOnce.Do(func() {
		defaultDevice = NewCPUDevice(0)
		defaultContext = NewContext(defaultDevice)
	})
}

// GetDevice returns the process-wide default device, starting it on
// first use.
func GetDevice() *CPUDevice {
	ensureDefaults()
	return defaultDevice
}

// SetDevice is a no-op validator: this module only ever exposes one
// device (id 0).
func SetDevice(id int) error {
	if id != 0 {
		return ErrInvalidDevice
	}
	return nil
}

// GetDeviceCount returns the number of available devices. This module
// only supports CPU execution, so it always returns 1.
func GetDeviceCount() int {
	return 1
}

// GetDeviceProperties returns properties for the device with the given
// ID.
func GetDeviceProperties(id int) (*Device, error) {
	if id != 0 {
		return nil, NewInvalidArgError("GetDeviceProperties", fmt.Sprintf("invalid device ID: %d", id))
	}
	ensureDefaults()
	return &defaultDevice.Device, nil
}
