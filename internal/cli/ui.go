package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/orchestration"
)

const (
	// ProgressRefreshRate is the refresh period of the spinner suffix.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner followed by a progress bar, the number of
// candidates examined and an ETA until progressChan is closed, then prints a
// one-line summary.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, plan orchestration.RunPlan, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(plan)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(agg, plan))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "Examined %s candidates with %d worker(s) in %s.\n",
					format.FormatNumberString(fmt.Sprint(agg.Examined())), plan.Workers,
					format.FormatExecutionDuration(agg.Elapsed()))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg, plan))
		}
	}
}

func progressSuffix(agg *orchestration.ProgressAggregator, plan orchestration.RunPlan) string {
	return fmt.Sprintf(" %s %s/%s (%d/%d workers done)",
		format.FormatProgressBarWithETA(agg.Fraction(), agg.GetETA(), ProgressBarWidth),
		format.FormatNumberString(fmt.Sprint(agg.Examined())),
		format.FormatNumberString(fmt.Sprint(plan.Candidates)),
		agg.WorkersDone(), plan.Workers)
}
