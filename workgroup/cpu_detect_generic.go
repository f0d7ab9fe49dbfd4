//go:build !amd64 && !arm64

package workgroup

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{}
}
