package orchestration

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/partition"
	"github.com/agbru/primefind/internal/prime"
	"github.com/agbru/primefind/internal/sink"
)

// ComparisonResult is the outcome of one strategy in a comparison.
type ComparisonResult struct {
	// Name identifies the strategy (the division mode name).
	Name     string
	Division partition.Kind
	// Primes holds the sorted primes, or nil if the run failed.
	Primes   []int
	Workers  []WorkerReport
	Duration time.Duration
	Err      error
}

// ExecuteComparison runs every partitioning strategy over the same search
// space, one after the other, with a batch sink writing to io.Discard.
// opts configure each run's Orchestrator (oracle, logger, metrics).
func ExecuteComparison(ctx context.Context, upperLimit, threads int, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(partition.Kinds))
	runOpts := append(slices.Clone(opts), WithOutput(io.Discard))
	for _, kind := range partition.Kinds {
		start := time.Now()
		res, err := New(runOpts...).Run(ctx, RunConfig{
			UpperLimit: upperLimit,
			Threads:    threads,
			Division:   kind,
			Print:      sink.Batch,
		})
		cr := ComparisonResult{Name: kind.String(), Division: kind, Duration: time.Since(start), Err: err}
		if err == nil {
			cr.Primes = slices.Sorted(slices.Values(res.Primes))
			cr.Workers = res.Workers
			cr.Duration = res.Duration
		}
		results = append(results, cr)
	}
	return results
}

// AnalyzeComparisonResults sorts results by success then duration, presents
// the comparison table and checks that every successful strategy found the
// same primes.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch on disagreement, or the exit code
//     of the first failure when no strategy succeeded.
func AnalyzeComparisonResults(results []ComparisonResult, upperLimit int, verbose bool, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *ComparisonResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the run.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !slices.Equal(res.Primes, firstValid.Primes) {
			err := Diff(firstValid.Name, firstValid.Primes, res.Name, res.Primes)
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", err)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All strategies found the same primes.\n")
	presenter.PresentResult(*firstValid, upperLimit, verbose, out)
	return apperrors.ExitSuccess
}

// Verify checks a run's primes against the sieve of Eratosthenes. primes may
// be in any order. It returns an apperrors.MismatchError on disagreement.
func Verify(primes []int, upperLimit int) error {
	got := slices.Sorted(slices.Values(primes))
	want := prime.Sieve(upperLimit)
	if slices.Equal(got, want) {
		return nil
	}
	return Diff("sieve", want, "run", got)
}

// Diff compares two sorted prime lists and describes their difference.
func Diff(expectedName string, expected []int, actualName string, actual []int) error {
	if slices.Equal(expected, actual) {
		return nil
	}
	mismatch := apperrors.MismatchError{Expected: expectedName, Actual: actualName}
	i, j := 0, 0
	for i < len(expected) || j < len(actual) {
		switch {
		case j >= len(actual) || (i < len(expected) && expected[i] < actual[j]):
			mismatch.Missing = append(mismatch.Missing, expected[i])
			i++
		case i >= len(expected) || actual[j] < expected[i]:
			mismatch.Extra = append(mismatch.Extra, actual[j])
			j++
		default:
			i++
			j++
		}
	}
	return mismatch
}
