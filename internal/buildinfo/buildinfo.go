package buildinfo

import "fmt"

// Name is the application name shown on the device.
var Name = "trustg33k"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for UI/logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Partition is one entry of the flash layout.
type Partition struct {
	Name string
	Size uint32
}

// Partitions is the flash layout the firmware is built for.
var Partitions = []Partition{
	{Name: "app", Size: 1 << 20},
	{Name: "data", Size: 512 << 10},
	{Name: "ota_0", Size: 1 << 20},
	{Name: "ota_1", Size: 1 << 20},
}

// FormatSize renders a byte count the way the partition table does: 1MB, 512KB, 100B.
func FormatSize(n uint32) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
