// Package sysinfo reports the host a run executed on.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SysInfo is a short description of the host.
type SysInfo struct {
	Platform string
	CPU      string
	Cores    int
	MemoryGB uint64
}

// String formats the host on one line.
func (s SysInfo) String() string {
	return fmt.Sprintf("%s, %s (%d cores), %d GB", s.Platform, s.CPU, s.Cores, s.MemoryGB)
}

// Collect gathers the host description. Fields that cannot be read are left as "unknown" or zero
// and the first error encountered is returned alongside the partial result.
func Collect(ctx context.Context) (SysInfo, error) {
	info := SysInfo{Platform: "unknown", CPU: "unknown", Cores: runtime.NumCPU()}
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if h, err := host.InfoWithContext(ctx); err != nil {
		keep(fmt.Errorf("host info: %w", err))
	} else if h.Platform != "" {
		info.Platform = fmt.Sprintf("%s %s", h.Platform, h.PlatformVersion)
	} else {
		info.Platform = h.OS
	}

	if cpus, err := cpu.InfoWithContext(ctx); err != nil {
		keep(fmt.Errorf("cpu info: %w", err))
	} else if len(cpus) > 0 && cpus[0].ModelName != "" {
		info.CPU = cpus[0].ModelName
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		keep(fmt.Errorf("memory info: %w", err))
	} else {
		info.MemoryGB = vm.Total / 1024 / 1024 / 1024
	}

	return info, firstErr
}
