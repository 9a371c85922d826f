package sink

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/primefind/internal/ui"
)

// ImmediateSink writes one line per discovery. Each line is formatted in
// full and written with a single Write while holding the sink's mutex, so
// concurrent reports never interleave.
type ImmediateSink struct {
	mu       sync.Mutex
	w        io.Writer
	reported int
	err      error
}

// Verify interface compliance.
var _ Sink = (*ImmediateSink)(nil)

// NewImmediate returns an ImmediateSink writing to w.
func NewImmediate(w io.Writer) *ImmediateSink {
	return &ImmediateSink{w: w}
}

func (*ImmediateSink) sealed() {}

// Kind returns Immediate.
func (*ImmediateSink) Kind() Kind { return Immediate }

// Report prints "[IMMEDIATE] Worker <id> found prime: <v> at <time>".
func (s *ImmediateSink) Report(value, worker int, at time.Time) {
	line := fmt.Sprintf("%s[IMMEDIATE]%s Worker %d found prime: %d at %s\n",
		ui.ColorCyan(), ui.ColorReset(), worker, value, at.Format(TimestampLayout))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reported++
	if s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, line); err != nil {
		s.err = err
	}
}

// Reported returns the number of Report calls so far.
func (s *ImmediateSink) Reported() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reported
}

// Finalize prints the total.
func (s *ImmediateSink) Finalize(all []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return fmt.Errorf("immediate sink: %w", s.err)
	}
	if _, err := fmt.Fprintf(s.w, "%s[IMMEDIATE]%s Total primes found: %d\n",
		ui.ColorCyan(), ui.ColorReset(), len(all)); err != nil {
		return fmt.Errorf("immediate sink: %w", err)
	}
	return nil
}
