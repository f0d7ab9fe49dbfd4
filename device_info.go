package ocl

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// DeviceInfo mirrors the subset of clGetDeviceInfo parameters this module
// has an answer for.
type DeviceInfo struct {
	Name             string
	Vendor           string
	DriverVersion    string
	MaxComputeUnits  int
	MaxWorkGroupSize int
	MaxWorkItemDims  int
	GlobalMemSize    uint64
	Features         CPUFeatures
}

// String renders DeviceInfo the way a clinfo-style tool would.
func (info DeviceInfo) String() string {
	return fmt.Sprintf("%s (%s) driver %s: %d units, max work-group %d, %d dims, %s global mem, features: %s",
		info.Name, info.Vendor, info.DriverVersion, info.MaxComputeUnits,
		info.MaxWorkGroupSize, info.MaxWorkItemDims, formatBytes(info.GlobalMemSize), info.Features)
}

// deviceDriverVersion reports this module's version as a driver version
// string, falling back to a conservative placeholder when build info
// isn't available (e.g. running from `go run`). The version is checked
// against semver.IsValid so a malformed Version() never reaches a caller
// that expects to compare versions with semver.Compare.
func deviceDriverVersion() string {
	version, _ := Version()
	if version == "" {
		version = "v0.0.0"
	}
	if !semver.IsValid(version) {
		if semver.IsValid("v" + version) {
			version = "v" + version
		} else {
			version = "v0.0.0"
		}
	}
	return semver.Canonical(version)
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for n/div >= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
