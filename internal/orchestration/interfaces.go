package orchestration

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate is published by a worker every ProgressInterval candidates
// and once more when it finishes.
type ProgressUpdate struct {
	// Worker is the zero-based index of the publishing worker.
	Worker int
	// Examined is the cumulative number of candidates the worker examined.
	Examined uint64
	// Done is set on the worker's last update.
	Done bool
}

// RunPlan describes the run a ProgressReporter is about to observe.
type RunPlan struct {
	RunID      string
	Workers    int
	Candidates uint64
	Division   string
}

// ProgressReporter displays the progress of a run. DisplayProgress is
// started in its own goroutine before the workers and must return once
// progressChan is closed, calling wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, plan RunPlan, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, plan RunPlan, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, plan RunPlan, out io.Writer) {
	f(wg, progressChan, plan, out)
}

// NullProgressReporter drains the channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ RunPlan, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders the outcome of a strategy comparison.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per strategy.
	PresentComparisonTable(results []ComparisonResult, out io.Writer)
	// PresentResult displays the agreed result of the comparison.
	PresentResult(result ComparisonResult, upperLimit int, verbose bool, out io.Writer)
	// HandleError prints err and returns the matching exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// StateObserver is notified of every state transition of a run, from the
// goroutine that called Run.
type StateObserver func(runID string, state State)
