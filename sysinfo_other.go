//go:build !linux

package ocl

// getSystemMemory returns total system memory in bytes. unix.Sysinfo is
// Linux-specific; other platforms fall back to a conservative default.
func getSystemMemory() uint64 {
	return 16 * 1024 * 1024 * 1024
}
