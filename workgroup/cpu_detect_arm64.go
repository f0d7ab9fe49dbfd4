//go:build arm64

package workgroup

import "golang.org/x/sys/cpu"

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		HasNEON: cpu.ARM64.HasASIMD,
		HasFP16: cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP,
	}
}
