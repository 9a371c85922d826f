package orchestration

import (
	"time"

	"github.com/agbru/primefind/internal/format"
)

// ProgressAggregator folds the per-worker examined counts of a run into an
// overall completion fraction and an ETA. Both the CLI and the TUI use it.
// It is not safe for concurrent use; one reporter goroutine owns it.
type ProgressAggregator struct {
	eta        *format.ETATracker
	examined   []uint64
	done       []bool
	total      uint64
	candidates uint64
}

// NewProgressAggregator creates an aggregator for plan. It returns nil when
// the plan has no worker.
func NewProgressAggregator(plan RunPlan) *ProgressAggregator {
	if plan.Workers <= 0 {
		return nil
	}
	return &ProgressAggregator{
		eta:        format.NewETATracker(),
		examined:   make([]uint64, plan.Workers),
		done:       make([]bool, plan.Workers),
		candidates: plan.Candidates,
	}
}

// AggregatedProgress is the view of the run after one update.
type AggregatedProgress struct {
	Worker int
	// Examined is the total number of candidates examined by all workers.
	Examined uint64
	// Fraction is Examined relative to the size of the search space.
	Fraction float64
	// WorkersDone counts the workers that published their last update.
	WorkersDone int
	ETA         time.Duration
}

// Update applies one worker update. Updates for unknown workers, and stale
// updates lower than the last seen count, are ignored.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	if update.Worker >= 0 && update.Worker < len(a.examined) {
		if prev := a.examined[update.Worker]; update.Examined > prev {
			a.total += update.Examined - prev
			a.examined[update.Worker] = update.Examined
		}
		if update.Done {
			a.done[update.Worker] = true
		}
	}
	fraction := a.Fraction()
	eta := a.eta.Observe(fraction)
	return AggregatedProgress{
		Worker:      update.Worker,
		Examined:    a.total,
		Fraction:    fraction,
		WorkersDone: a.WorkersDone(),
		ETA:         eta,
	}
}

// Fraction returns the overall completion in [0, 1].
func (a *ProgressAggregator) Fraction() float64 {
	if a.candidates == 0 {
		return 1
	}
	f := float64(a.total) / float64(a.candidates)
	if f > 1 {
		return 1
	}
	return f
}

// Examined returns the total examined so far.
func (a *ProgressAggregator) Examined() uint64 { return a.total }

// WorkerExamined returns the count last reported by one worker.
func (a *ProgressAggregator) WorkerExamined(worker int) uint64 {
	if worker < 0 || worker >= len(a.examined) {
		return 0
	}
	return a.examined[worker]
}

// WorkersDone returns the number of finished workers.
func (a *ProgressAggregator) WorkersDone() int {
	n := 0
	for _, d := range a.done {
		if d {
			n++
		}
	}
	return n
}

// GetETA returns the current ETA without applying an update.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.eta.ETA()
}

// Elapsed returns the time since the aggregator was created.
func (a *ProgressAggregator) Elapsed() time.Duration {
	return a.eta.Elapsed()
}

// NumWorkers returns the number of workers being tracked.
func (a *ProgressAggregator) NumWorkers() int {
	return len(a.examined)
}

// DrainChannel discards every update until progressChan is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
