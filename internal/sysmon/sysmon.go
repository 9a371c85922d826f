// Package sysmon samples host CPU and memory usage for the dashboard while a
// search is running.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of host resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemUsed    uint64
	MemTotal   uint64
	// LogicalCPUs is zero when the count could not be read.
	LogicalCPUs int
}

// Sample collects a host-wide snapshot. CPU usage is the delta since the
// previous call, so the first sample of a process usually reads 0. Fields
// that cannot be read are left at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if vmem, err := mem.VirtualMemoryWithContext(ctx); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
		s.MemUsed = vmem.Used
		s.MemTotal = vmem.Total
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.LogicalCPUs = n
	}
	return s
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
