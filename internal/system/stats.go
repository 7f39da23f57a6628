package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MemoryStats is a snapshot of process and system memory.
type MemoryStats struct {
	ProcessRSS  uint64
	SystemUsed  uint64
	SystemTotal uint64
}

// ReadMemoryStats samples memory usage of this process and of the machine.
func ReadMemoryStats() (MemoryStats, error) {
	var s MemoryStats

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.SystemUsed = vm.Used
	s.SystemTotal = vm.Total

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("process: %w", err)
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("process memory: %w", err)
	}
	s.ProcessRSS = info.RSS
	return s, nil
}

func (s MemoryStats) String() string {
	const mb = 1 << 20
	return fmt.Sprintf("RSS %d MB | System %d/%d MB", s.ProcessRSS/mb, s.SystemUsed/mb, s.SystemTotal/mb)
}
