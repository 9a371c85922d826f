package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime memory stats.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by the application
	HeapSys      uint64 // bytes obtained from the OS for the heap
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Delta returns the GC cycles and pause time spent between before and after.
func (after MemorySnapshot) Delta(before MemorySnapshot) (gcCycles uint32, pauseNs uint64) {
	return after.NumGC - before.NumGC, after.PauseTotalNs - before.PauseTotalNs
}
