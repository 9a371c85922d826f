package tui

import (
	"time"

	"github.com/agbru/primefind/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update from the workers.
type ProgressMsg struct {
	Worker      int
	Examined    uint64
	Fraction    float64
	WorkersDone int
	ETA         time.Duration
}

// ProgressDoneMsg is sent once the progress channel has been closed.
type ProgressDoneMsg struct{}

// PlanMsg announces the shape of the run before workers start.
type PlanMsg struct {
	Plan orchestration.RunPlan
}

// StateMsg reports a lifecycle transition of the orchestrator.
type StateMsg struct {
	RunID string
	State orchestration.State
}

// SinkLineMsg is one line written by the sink.
type SinkLineMsg struct {
	Line string
}

// RunCompleteMsg is sent when the run has returned.
type RunCompleteMsg struct {
	Result   *orchestration.RunResult
	Err      error
	ExitCode int
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries Go runtime memory statistics.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries host CPU and memory usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
