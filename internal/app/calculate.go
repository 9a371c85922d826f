package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/primefind/internal/cli"
	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/sink"
	"github.com/agbru/primefind/internal/ui"
)

// runFind performs a single search with the configured strategy.
func (a *Application) runFind(ctx context.Context, out io.Writer, opts []orchestration.Option) int {
	runCfg, err := a.Config.ToRunConfig()
	if err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	start := time.Now()
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(a.Config, start, out)
	}
	if reporter := a.progressReporter(runCfg.Print); reporter != nil {
		opts = append(opts, orchestration.WithProgressReporter(reporter, a.ErrWriter))
	}

	mem := metrics.NewMemoryCollector()
	before := mem.Snapshot()
	res, err := orchestration.New(append(opts, orchestration.WithOutput(out))...).Run(ctx, runCfg)
	if err != nil {
		return apperrors.HandleRunError(err, time.Since(start), a.ErrWriter, cli.CLIColorProvider{})
	}
	after := mem.Snapshot()

	if a.Config.Verify {
		if code := a.verify(res.Primes, out); code != apperrors.ExitSuccess {
			return code
		}
	}

	outputCfg := a.outputConfig()
	if !outputCfg.Quiet {
		cli.DisplayResult(res.Primes, a.Config.UpperLimit, res.Division.String(), res.Duration, outputCfg.Verbose, out)
		if a.Config.Details {
			cli.DisplayWorkerReports(res.Workers, out)
			cli.DisplayMemoryStats(before, after, out)
		}
	}

	if err := a.saveResultIfNeeded(res.RunID, res.Primes, res.Division.String(), res.Duration, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if outputCfg.OutputFile != "" && !outputCfg.Quiet {
		cli.DisplaySavedFile(out, outputCfg.OutputFile)
	}

	if !outputCfg.Quiet {
		end := time.Now()
		cli.PrintCompletion(end, end.Sub(start), out)
	}
	return apperrors.ExitSuccess
}

// progressReporter returns the spinner reporter, or nil when it must stay
// off: an immediate sink writes lines while workers run, and the spinner
// redraws the same terminal row.
func (a *Application) progressReporter(printKind sink.Kind) orchestration.ProgressReporter {
	if a.Config.Quiet || printKind == sink.Immediate {
		return nil
	}
	return cli.CLIProgressReporter{}
}

// runCompare runs every division mode and checks that they agree.
func (a *Application) runCompare(ctx context.Context, out io.Writer, opts []orchestration.Option) int {
	start := time.Now()
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(a.Config, start, out)
	}

	results := orchestration.ExecuteComparison(ctx, a.Config.UpperLimit, a.Config.Threads, opts...)

	presenterOut := out
	if a.Config.Quiet {
		presenterOut = io.Discard
	}
	code := orchestration.AnalyzeComparisonResults(results, a.Config.UpperLimit, a.Config.Verbose, cli.CLIResultPresenter{}, presenterOut)
	if code != apperrors.ExitSuccess {
		if a.Config.Quiet {
			fmt.Fprintf(a.ErrWriter, "comparison failed with exit code %d\n", code)
		}
		return code
	}

	// Successful results sort first.
	best := results[0]
	if a.Config.Verify {
		if code := a.verify(best.Primes, out); code != apperrors.ExitSuccess {
			return code
		}
	}
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, best.Primes)
	} else if a.Config.Details {
		for _, r := range results {
			fmt.Fprintf(out, "\n%s%s%s:", ui.ColorBold(), r.Name, ui.ColorReset())
			cli.DisplayWorkerReports(r.Workers, out)
		}
	}

	if err := a.saveResultIfNeeded("", best.Primes, best.Name, best.Duration, a.outputConfig()); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		if a.Config.OutputFile != "" {
			cli.DisplaySavedFile(out, a.Config.OutputFile)
		}
		end := time.Now()
		cli.PrintCompletion(end, end.Sub(start), out)
	}
	return apperrors.ExitSuccess
}

// verify cross-checks primes against the sieve.
func (a *Application) verify(primes []int, out io.Writer) int {
	if err := orchestration.Verify(primes, a.Config.UpperLimit); err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%sVerification passed:%s result matches the sieve of Eratosthenes.\n", ui.ColorGreen(), ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

func (a *Application) saveResultIfNeeded(runID string, primes []int, division string, d time.Duration, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	err := cli.WriteResultToFile(primes, cli.ResultFileHeader{
		RunID:      runID,
		UpperLimit: a.Config.UpperLimit,
		Threads:    a.Config.Threads,
		Division:   division,
		Duration:   d,
	}, cfg.OutputFile)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
	}
	return err
}
