package ocl

import "github.com/go-ocl/oclcpu/workgroup"

// CPUFeatures tracks the SIMD instruction-set extensions available on the
// host CPU. Detection lives in the workgroup package, which also needs it
// to pick an accelerated path for image built-ins (get_image_*/read_imagef/
// write_imagef); this is an alias so host code keeps its own name for it.
type CPUFeatures = workgroup.CPUFeatures

// Features returns the CPU feature set detected at process start.
func Features() CPUFeatures {
	return workgroup.Features()
}

// HasAcceleratedSwizzle reports whether a SIMD-accelerated image swizzle
// path is available on this CPU.
func HasAcceleratedSwizzle() bool {
	return workgroup.HasAcceleratedSwizzle()
}
