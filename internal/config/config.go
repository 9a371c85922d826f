// Package config builds the application configuration from, in decreasing
// priority: command-line flags, PRIMEFIND_* environment variables, a TOML
// file and built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/orchestration"
	"github.com/agbru/primefind/internal/partition"
	"github.com/agbru/primefind/internal/sink"
)

// EnvPrefix is the prefix of every environment variable read by the
// configuration layer.
const EnvPrefix = "PRIMEFIND_"

// Default values.
const (
	DefaultThreads      = 4
	DefaultUpperLimit   = 1000
	DefaultPrintMode    = "immediate"
	DefaultDivisionMode = "range"
	DefaultConfigFile   = "config.toml"
	DefaultLogLevel     = "warn"
)

// AppConfig is the complete configuration of one invocation.
type AppConfig struct {
	// ConfigFile is the TOML file path. ConfigFileExplicit is set when the
	// path came from -config or PRIMEFIND_CONFIG rather than the default.
	ConfigFile         string
	ConfigFileExplicit bool

	UpperLimit   int
	Threads      int
	PrintMode    string
	DivisionMode string
	AutoThreads  bool

	Compare bool
	Verify  bool
	Quiet   bool
	Verbose bool
	Details bool
	NoColor bool
	TUI     bool

	OutputFile  string
	MetricsFile string
	LogLevel    string
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() AppConfig {
	return AppConfig{
		ConfigFile:   DefaultConfigFile,
		UpperLimit:   DefaultUpperLimit,
		Threads:      DefaultThreads,
		PrintMode:    DefaultPrintMode,
		DivisionMode: DefaultDivisionMode,
		LogLevel:     DefaultLogLevel,
	}
}

// ParseConfig parses args (without the program name) and resolves the
// configuration. Help requests return flag.ErrHelp. Every other failure is
// an apperrors.ConfigError. Warnings, such as unknown keys in the config
// file, are written to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\nFind every prime in [1, limit] with a pool of worker goroutines.\n\nOptions:\n", programName)
		fs.PrintDefaults()
	}

	cfg := Defaults()
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path of the TOML configuration file.")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "Number of worker goroutines.")
	fs.IntVar(&cfg.Threads, "t", cfg.Threads, "Number of worker goroutines (shorthand).")
	fs.IntVar(&cfg.UpperLimit, "limit", cfg.UpperLimit, "Inclusive upper bound of the search.")
	fs.IntVar(&cfg.UpperLimit, "n", cfg.UpperLimit, "Inclusive upper bound of the search (shorthand).")
	fs.StringVar(&cfg.PrintMode, "print", cfg.PrintMode, "Print mode: 'immediate' or 'batch'.")
	fs.StringVar(&cfg.DivisionMode, "division", cfg.DivisionMode, "Division mode: 'range' or 'queue'.")
	fs.BoolVar(&cfg.AutoThreads, "auto-threads", false, "Pick the worker count from the number of CPUs.")
	fs.BoolVar(&cfg.Compare, "compare", false, "Run every division mode and compare the results.")
	fs.BoolVar(&cfg.Verify, "verify", false, "Cross-check the result against a sieve of Eratosthenes.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet mode: only print the sink output.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print the complete prime list in summaries.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose (shorthand).")
	fs.BoolVar(&cfg.Details, "details", false, "Print per-worker reports and memory statistics.")
	fs.BoolVar(&cfg.Details, "d", false, "Details (shorthand).")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the primes to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Output file (shorthand).")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error, disabled.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.ConfigError{Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.ConfigError{Message: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}

	if err := applyConfigFile(&cfg, fs, errorWriter); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&cfg, fs)

	if cfg.AutoThreads {
		cfg.Threads = EstimateOptimalThreads()
	}
	cfg.PrintMode = strings.ToLower(strings.TrimSpace(cfg.PrintMode))
	cfg.DivisionMode = strings.ToLower(strings.TrimSpace(cfg.DivisionMode))

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Threads < 1 {
		return apperrors.NewConfigError("threads", "must be at least 1, got %d", c.Threads)
	}
	if c.Threads > partition.MaxWorkers {
		return apperrors.NewConfigError("threads", "must be at most %d, got %d", partition.MaxWorkers, c.Threads)
	}
	if _, err := partition.ParseKind(c.DivisionMode); err != nil {
		return err
	}
	if _, err := sink.ParseKind(c.PrintMode); err != nil {
		return err
	}
	if _, err := c.ZerologLevel(); err != nil {
		return err
	}
	if c.TUI && c.Compare {
		return apperrors.NewConfigError("tui", "cannot be combined with -compare")
	}
	return nil
}

// ZerologLevel parses LogLevel.
func (c AppConfig) ZerologLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, apperrors.NewConfigError("log_level", "%v", err)
	}
	return level, nil
}

// ToRunConfig converts the configuration into the orchestrator's input.
func (c AppConfig) ToRunConfig() (orchestration.RunConfig, error) {
	division, err := partition.ParseKind(c.DivisionMode)
	if err != nil {
		return orchestration.RunConfig{}, err
	}
	printKind, err := sink.ParseKind(c.PrintMode)
	if err != nil {
		return orchestration.RunConfig{}, err
	}
	return orchestration.RunConfig{
		UpperLimit: c.UpperLimit,
		Threads:    c.Threads,
		Division:   division,
		Print:      printKind,
	}, nil
}
