package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/primefind/internal/config"
	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/ui"
)

// TimestampLayout is the layout of the start and end banners.
const TimestampLayout = "Mon Jan 02 15:04:05 2006"

// PrintExecutionConfig displays the configuration of the run about to start.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Searching primes in %s[1, %s]%s with %s%d%s worker(s).\n",
		ui.ColorMagenta(), format.FormatInt(cfg.UpperLimit), ui.ColorReset(),
		ui.ColorCyan(), cfg.Threads, ui.ColorReset())
	fmt.Fprintf(out, "Division mode: %s%s%s, print mode: %s%s%s.\n",
		ui.ColorGreen(), cfg.DivisionMode, ui.ColorReset(),
		ui.ColorGreen(), cfg.PrintMode, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.ConfigFileExplicit {
		fmt.Fprintf(out, "Configuration file: %s\n", cfg.ConfigFile)
	}
}

// PrintExecutionMode displays whether one strategy runs or all are compared,
// followed by the start banner.
func PrintExecutionMode(cfg config.AppConfig, start time.Time, out io.Writer) {
	if cfg.Compare {
		fmt.Fprintf(out, "Execution mode: comparison of every division mode.\n")
	} else {
		fmt.Fprintf(out, "Execution mode: single run with %s%s%s division.\n",
			ui.ColorGreen(), cfg.DivisionMode, ui.ColorReset())
	}
	fmt.Fprintf(out, "\n--- Starting Execution at %s ---\n", start.Format(TimestampLayout))
}

// PrintCompletion displays the end banner.
func PrintCompletion(end time.Time, elapsed time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\n--- Execution finished at %s (%s) ---\n",
		end.Format(TimestampLayout), format.FormatExecutionDuration(elapsed))
	fmt.Fprintf(out, "%sExecution completed successfully!%s\n", ui.ColorGreen(), ui.ColorReset())
}
