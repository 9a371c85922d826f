package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies ANSI sequences for error output. A nil provider
// disables colour.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleRunError prints a user-facing description of a run failure and
// returns the matching exit code.
//
// Parameters:
//   - err: The error returned by the run (nil means success).
//   - duration: How long the run had been going, or 0 if it never started.
//   - out: The writer for the message.
//   - colors: Optional colour provider.
//
// Returns:
//   - int: The exit code for the process.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var we WorkerError
	switch {
	case IsConfigError(err):
		fmt.Fprintf(out, "%sConfiguration error:%s %v\n", red, reset, err)
	case errors.As(err, &we):
		fmt.Fprintf(out, "%sRun aborted%s after %s%s%s: %v\n", red, reset, yellow, duration, reset, err)
	default:
		fmt.Fprintf(out, "%sError:%s %v\n", red, reset, err)
	}
	return ExitCodeFor(err)
}
