package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/primefind/internal/config"
	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/logging"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/prime"
	"github.com/agbru/primefind/internal/tui"
	"github.com/agbru/primefind/internal/ui"
)

// Application represents the primefind application instance.
type Application struct {
	Config    config.AppConfig
	Oracle    prime.Oracle
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithOracle replaces the primality oracle used by every run.
func WithOracle(o prime.Oracle) AppOption {
	return func(a *Application) { a.Oracle = o }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Oracle == nil {
		app.Oracle = prime.TrialDivision{}
	}

	programName := "primefind"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	runMetrics := metrics.NewRunMetrics()
	opts := []orchestration.Option{
		orchestration.WithOracle(a.Oracle),
		orchestration.WithMetrics(runMetrics),
	}

	var code int
	switch {
	case a.Config.TUI:
		// Log lines would corrupt the alternate screen.
		code = a.runTUI(ctx, append(opts, orchestration.WithLogger(logging.NopLogger{})))
	case a.Config.Compare:
		code = a.runCompare(ctx, out, append(opts, orchestration.WithLogger(a.logger())))
	default:
		code = a.runFind(ctx, out, append(opts, orchestration.WithLogger(a.logger())))
	}

	if a.Config.MetricsFile != "" {
		if err := runMetrics.WriteTextfile(a.Config.MetricsFile); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
			if code == apperrors.ExitSuccess {
				code = apperrors.ExitErrorGeneric
			}
		}
	}
	return code
}

// logger returns a JSON logger on ErrWriter at the configured level.
func (a *Application) logger() logging.Logger {
	level, err := a.Config.ZerologLevel()
	if err != nil {
		level = zerolog.WarnLevel
	}
	return logging.NewZerologAdapter(zerolog.New(a.ErrWriter).Level(level).
		With().Timestamp().Str("component", "primefind").Logger())
}

// runTUI launches the dashboard.
func (a *Application) runTUI(ctx context.Context, opts []orchestration.Option) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	res, code := tui.Run(ctx, a.Config, Version, opts...)
	if code == apperrors.ExitInterrupted {
		fmt.Fprintln(a.ErrWriter, "Interrupted before the run completed; no result was produced.")
		return code
	}
	if res == nil || code != apperrors.ExitSuccess {
		return code
	}
	if a.Config.Verify {
		if err := orchestration.Verify(res.Primes, a.Config.UpperLimit); err != nil {
			return apperrors.HandleRunError(err, res.Duration, a.ErrWriter, nil)
		}
	}
	if err := a.saveResultIfNeeded(res.RunID, res.Primes, res.Division.String(), res.Duration, a.outputConfig()); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
