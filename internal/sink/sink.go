// Package sink reports discovered primes while a run is in progress and
// prints the summary once every worker has been joined.
package sink

import (
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/primefind/internal/errors"
)

// TimestampLayout is the layout of discovery timestamps in immediate output.
const TimestampLayout = "Mon Jan 02 15:04:05 2006"

// Kind identifies a reporting policy.
type Kind int

const (
	// Immediate prints each discovery as soon as it is reported.
	Immediate Kind = iota
	// Batch buffers discoveries and prints them sorted at the end.
	Batch
)

// String returns the configuration name of the policy.
func (k Kind) String() string {
	switch k {
	case Immediate:
		return "immediate"
	case Batch:
		return "batch"
	default:
		return "unknown"
	}
}

// ParseKind maps a print mode string to a Kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return Immediate, nil
	case "batch":
		return Batch, nil
	default:
		return 0, apperrors.NewConfigError("print_mode", "unknown mode %q (accepted values: immediate, batch)", s)
	}
}

// Sink observes discoveries. Report is called concurrently by workers;
// Finalize is called exactly once, after all workers have been joined.
// The set of implementations is closed: use New to build one.
type Sink interface {
	Kind() Kind
	// Report records that worker found value at the given time.
	Report(value, worker int, at time.Time)
	// Finalize receives the complete result collection and prints the
	// summary. It returns the first write error encountered by the sink.
	Finalize(all []int) error

	sealed()
}

// New builds the sink of the given kind writing to w.
func New(kind Kind, w io.Writer) (Sink, error) {
	switch kind {
	case Immediate:
		return NewImmediate(w), nil
	case Batch:
		return NewBatch(w), nil
	default:
		return nil, apperrors.NewConfigError("print_mode", "unknown sink kind %d", int(kind))
	}
}
