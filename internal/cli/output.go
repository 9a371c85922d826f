// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write files.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/primefind/internal/format"
	"github.com/agbru/primefind/internal/ui"
)

const (
	// TruncationLimit is the count above which non-verbose output only shows
	// the first and last DisplayEdges primes.
	TruncationLimit = 20
	// DisplayEdges is the number of primes shown at each end of a truncated
	// list.
	DisplayEdges = 5
)

// OutputConfig holds the result output settings.
type OutputConfig struct {
	OutputFile string
	Quiet      bool
	Verbose    bool
}

// ResultFileHeader describes the run written by WriteResultToFile.
type ResultFileHeader struct {
	RunID      string
	UpperLimit int
	Threads    int
	Division   string
	Duration   time.Duration
}

// WriteResultToFile writes the sorted primes, one per line, after a
// commented header.
func WriteResultToFile(primes []int, header ResultFileHeader, path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# Prime Search Result\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	if header.RunID != "" {
		fmt.Fprintf(w, "# Run: %s\n", header.RunID)
	}
	fmt.Fprintf(w, "# Upper limit: %d\n", header.UpperLimit)
	fmt.Fprintf(w, "# Threads: %d\n", header.Threads)
	fmt.Fprintf(w, "# Division: %s\n", header.Division)
	fmt.Fprintf(w, "# Duration: %s\n", header.Duration)
	fmt.Fprintf(w, "# Count: %d\n", len(primes))
	fmt.Fprintf(w, "\n")
	for _, p := range slices.Sorted(slices.Values(primes)) {
		w.WriteString(strconv.Itoa(p))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

// FormatPrimeList joins sorted primes with ", ". Unless verbose, lists longer
// than TruncationLimit keep only DisplayEdges values at each end.
func FormatPrimeList(primes []int, verbose bool) string {
	sorted := slices.Sorted(slices.Values(primes))
	join := func(v []int) string {
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = strconv.Itoa(p)
		}
		return strings.Join(parts, ", ")
	}
	if verbose || len(sorted) <= TruncationLimit {
		return join(sorted)
	}
	return join(sorted[:DisplayEdges]) + ", ... , " + join(sorted[len(sorted)-DisplayEdges:])
}

// DisplayResult prints the summary of a finalized run.
func DisplayResult(primes []int, upperLimit int, division string, duration time.Duration, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Found %s%s%s primes in [1, %s] with %s%s%s division in %s%s%s.\n",
		ui.ColorGreen(), format.FormatInt(len(primes)), ui.ColorReset(),
		format.FormatInt(upperLimit),
		ui.ColorCyan(), division, ui.ColorReset(),
		ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
	if len(primes) > 0 {
		fmt.Fprintf(out, "Primes: %s\n", FormatPrimeList(primes, verbose))
		if !verbose && len(primes) > TruncationLimit {
			fmt.Fprintf(out, "(truncated) Tip: use -v to print every prime.\n")
		}
	}
}

// DisplayQuietResult prints only the prime count, for scripting.
func DisplayQuietResult(out io.Writer, primes []int) {
	fmt.Fprintln(out, len(primes))
}

// DisplaySavedFile confirms that the result file was written.
func DisplaySavedFile(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
