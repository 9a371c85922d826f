package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

// Verify interface compliance.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, plan orchestration.RunPlan, out io.Writer) {
	DisplayProgress(wg, progressChan, plan, out)
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

// Verify interface compliance.
var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for the
// terminal.
type CLIResultPresenter struct{}

// Verify interface compliance.
var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable prints one row per strategy. Padding is computed
// on the uncoloured text so ANSI sequences do not break the alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.ComparisonResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	const (
		nameHeader     = "Division"
		durationHeader = "Duration"
		primesHeader   = "Primes"
	)
	nameWidth, durationWidth, primesWidth := len(nameHeader), len(durationHeader), len(primesHeader)
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durationWidth = max(durationWidth, len(displayDuration(res.Duration)))
		primesWidth = max(primesWidth, len(primeCount(res)))
	}

	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %sStatus%s\n",
		ui.ColorUnderline(), nameHeader, ui.ColorReset(), padRight("", nameWidth-len(nameHeader)),
		ui.ColorUnderline(), durationHeader, ui.ColorReset(), padRight("", durationWidth-len(durationHeader)),
		ui.ColorUnderline(), primesHeader, ui.ColorReset(), padRight("", primesWidth-len(primesHeader)),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		status := fmt.Sprintf("%sSuccess%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%sFailure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		}
		duration := displayDuration(res.Duration)
		count := primeCount(res)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", nameWidth-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durationWidth-len(duration)),
			count, padRight("", primesWidth-len(count)),
			status)
	}
}

// PresentResult prints the agreed result of a comparison.
func (CLIResultPresenter) PresentResult(result orchestration.ComparisonResult, upperLimit int, verbose bool, out io.Writer) {
	DisplayResult(result.Primes, upperLimit, result.Name, result.Duration, verbose, out)
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRunError(err, duration, out, CLIColorProvider{})
}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func primeCount(res orchestration.ComparisonResult) string {
	if res.Err != nil {
		return "-"
	}
	return format.FormatInt(len(res.Primes))
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// DisplayWorkerReports prints one line per worker.
func DisplayWorkerReports(reports []orchestration.WorkerReport, out io.Writer) {
	fmt.Fprintf(out, "\n--- Worker Reports ---\n")
	for _, r := range reports {
		fmt.Fprintf(out, "Worker %s%d%s: %-20s examined %s%s%s, found %s%s%s in %s\n",
			ui.ColorCyan(), r.Worker, ui.ColorReset(),
			r.Assignment,
			ui.ColorYellow(), format.FormatNumberString(fmt.Sprint(r.Examined)), ui.ColorReset(),
			ui.ColorGreen(), format.FormatInt(r.Found), ui.ColorReset(),
			format.FormatExecutionDuration(r.Duration))
	}
}

// DisplayMemoryStats prints the memory used between two snapshots.
func DisplayMemoryStats(before, after metrics.MemorySnapshot, out io.Writer) {
	gcCycles, pauseNs := after.Delta(before)
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Heap reserved:   %s\n", format.FormatBytes(after.HeapSys))
	fmt.Fprintf(out, "  Heap objects:    %s\n", format.FormatNumberString(fmt.Sprint(after.HeapObjects)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", gcCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseNs)/1e6)
}
