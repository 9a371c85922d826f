package sink

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/agbru/primefind/internal/ui"
)

// ValuesPerLine is the number of primes printed on each batch output line.
const ValuesPerLine = 10

// BatchSink buffers discoveries without any I/O on the worker path and
// prints the sorted collection on Finalize.
type BatchSink struct {
	mu       sync.Mutex
	w        io.Writer
	buffered []int
}

// Verify interface compliance.
var _ Sink = (*BatchSink)(nil)

// NewBatch returns a BatchSink writing to w.
func NewBatch(w io.Writer) *BatchSink {
	return &BatchSink{w: w}
}

func (*BatchSink) sealed() {}

// Kind returns Batch.
func (*BatchSink) Kind() Kind { return Batch }

// Report buffers value.
func (s *BatchSink) Report(value, _ int, _ time.Time) {
	s.mu.Lock()
	s.buffered = append(s.buffered, value)
	s.mu.Unlock()
}

// Buffered returns a copy of the values reported so far, in arrival order.
func (s *BatchSink) Buffered() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.buffered)
}

// Finalize sorts a copy of all and prints it ValuesPerLine per line between
// a header and a total line. The caller's slice is left untouched.
func (s *BatchSink) Finalize(all []int) error {
	sorted := slices.Clone(all)
	slices.Sort(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()

	tag := ui.ColorYellow() + "[BATCH]" + ui.ColorReset()
	bw := bufio.NewWriter(s.w)
	fmt.Fprintf(bw, "%s All workers completed. Found primes:\n", tag)
	for i, v := range sorted {
		switch {
		case i == 0:
		case i%ValuesPerLine == 0:
			bw.WriteByte('\n')
		default:
			bw.WriteString(", ")
		}
		bw.WriteString(strconv.Itoa(v))
	}
	if len(sorted) > 0 {
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "%s Total primes found: %d\n", tag, len(sorted))
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("batch sink: %w", err)
	}
	return nil
}
