package workgroup

// CPUFeatures tracks the SIMD instruction-set extensions available on the
// host CPU. It is used to pick an accelerated code path for image channel
// swizzle/format conversion (image.go) and is otherwise informational.
type CPUFeatures struct {
	HasSSE4     bool
	HasAVX      bool
	HasAVX2     bool
	HasAVX512F  bool
	HasAVX512DQ bool
	HasFMA      bool
	HasNEON     bool
	HasFP16     bool
}

var cpuFeatures = detectCPUFeatures()

// Features returns the CPU feature set detected at process start.
func Features() CPUFeatures {
	return cpuFeatures
}

// HasAcceleratedSwizzle reports whether a SIMD-accelerated image swizzle
// path is available on this CPU.
func HasAcceleratedSwizzle() bool {
	return cpuFeatures.HasAVX2 || cpuFeatures.HasNEON
}

// String describes the detected feature set.
func (f CPUFeatures) String() string {
	names := []string{}
	add := func(has bool, name string) {
		if has {
			names = append(names, name)
		}
	}
	add(f.HasSSE4, "SSE4")
	add(f.HasAVX, "AVX")
	add(f.HasAVX2, "AVX2")
	add(f.HasFMA, "FMA")
	add(f.HasAVX512F, "AVX512F")
	add(f.HasAVX512DQ, "AVX512DQ")
	add(f.HasNEON, "NEON")
	add(f.HasFP16, "FP16")

	if len(names) == 0 {
		return "no SIMD extensions detected"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
