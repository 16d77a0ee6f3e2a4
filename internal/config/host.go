package config

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostProfile describes the machine a run executes on
type HostProfile struct {
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64
	UsedPercent  float64
}

// DefaultWorkers returns the logical CPU count, falling back to
// runtime.NumCPU when the host cannot be queried.
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ProbeHost gathers CPU and memory figures. Failures are logged and leave
// the corresponding fields zero.
func ProbeHost(log zerolog.Logger) HostProfile {
	var profile HostProfile

	logical, err := cpu.Counts(true)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get logical CPU count")
		logical = runtime.NumCPU()
	}
	profile.LogicalCPUs = logical

	physical, err := cpu.Counts(false)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get physical CPU count")
	}
	profile.PhysicalCPUs = physical

	// Get memory statistics (instant, no blocking)
	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get memory statistics")
		return profile
	}
	profile.TotalMemory = memStat.Total
	profile.UsedPercent = memStat.UsedPercent

	return profile
}
