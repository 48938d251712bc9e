package resource

import (
	"os"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Minimum headroom for a verification attempt: the embedding models are
// memory-hungry and staging needs scratch space in the temp directory.
const (
	minDiskGB = 1.0
)

// Status is the result of a preflight resource check.
type Status struct {
	Sufficient        bool
	AvailableMemoryMB float64
	AvailableDiskGB   float64
	MemoryOK          bool
	DiskOK            bool
}

// Monitor reports whether the host has enough headroom to run an attempt.
// A nil Monitor means "no monitoring available" and is treated as OK.
type Monitor interface {
	Check() Status
}

// SystemMonitor reads live memory and temp-dir disk figures.
type SystemMonitor struct {
	MinMemoryMB float64
}

func NewSystemMonitor(minMemoryMB float64) *SystemMonitor {
	return &SystemMonitor{MinMemoryMB: minMemoryMB}
}

// Check never fails hard: if the platform refuses to report, resources are
// assumed sufficient rather than blocking every verification.
func (m *SystemMonitor) Check() Status {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Status{Sufficient: true, MemoryOK: true, DiskOK: true}
	}

	availableMB := float64(vm.Available) / (1024 * 1024)
	st := Status{
		AvailableMemoryMB: availableMB,
		MemoryOK:          availableMB > m.MinMemoryMB,
		DiskOK:            true,
	}

	if du, err := disk.Usage(os.TempDir()); err == nil {
		st.AvailableDiskGB = float64(du.Free) / (1024 * 1024 * 1024)
		st.DiskOK = st.AvailableDiskGB > minDiskGB
	}

	st.Sufficient = st.MemoryOK && st.DiskOK
	return st
}

// OK applies the nil-is-fine policy for optional monitors.
func OK(m Monitor) (Status, bool) {
	if m == nil {
		return Status{Sufficient: true, MemoryOK: true, DiskOK: true}, true
	}
	st := m.Check()
	return st, st.MemoryOK
}
