package partition

import (
	"strings"

	apperrors "github.com/agbru/primefind/internal/errors"
)

// FirstCandidate is the canonical lower bound of the search space.
const FirstCandidate = 2

// MaxWorkers bounds the number of workers a partitioner accepts.
const MaxWorkers = 1 << 16

// Kind identifies a partitioning strategy.
type Kind int

const (
	// Range is the static contiguous sub-range strategy.
	Range Kind = iota
	// Queue is the dynamic shared-counter strategy.
	Queue
)

// Kinds lists every strategy in a stable order.
var Kinds = []Kind{Range, Queue}

// String returns the configuration name of the strategy.
func (k Kind) String() string {
	switch k {
	case Range:
		return "range"
	case Queue:
		return "queue"
	default:
		return "unknown"
	}
}

// ParseKind maps a division mode string to a Kind. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "range":
		return Range, nil
	case "queue":
		return Queue, nil
	default:
		return 0, apperrors.NewConfigError("division_mode", "unknown mode %q (accepted values: range, queue)", s)
	}
}

// Source yields the candidates assigned to one worker. A Source is owned by
// a single worker goroutine.
type Source interface {
	// Next returns the next candidate, or false when the worker is done.
	Next() (int, bool)
	// Describe returns a short human-readable description of the assignment.
	Describe() string
}

// Partitioner hands each worker its Source. The set of implementations is
// closed: use New to build one.
type Partitioner interface {
	Kind() Kind
	// Workers returns the number of workers the partitioner was built for.
	Workers() int
	// Source returns the Source of worker i (0 <= i < Workers()).
	Source(worker int) Source

	sealed()
}

// New builds the partitioner of the given kind for the search space [1, upper]
// split across workers. It fails with a ConfigError when workers is outside
// [1, MaxWorkers] or the kind is unknown.
func New(kind Kind, upper, workers int) (Partitioner, error) {
	if workers < 1 {
		return nil, apperrors.NewConfigError("threads", "must be at least 1, got %d", workers)
	}
	if workers > MaxWorkers {
		return nil, apperrors.NewConfigError("threads", "must be at most %d, got %d", MaxWorkers, workers)
	}
	switch kind {
	case Range:
		return NewStaticRanges(upper, workers), nil
	case Queue:
		return NewDynamicCounter(upper, workers), nil
	default:
		return nil, apperrors.NewConfigError("division_mode", "unknown strategy %d", int(kind))
	}
}

// emptySource never yields a candidate.
type emptySource struct{}

func (emptySource) Next() (int, bool) { return 0, false }
func (emptySource) Describe() string  { return "idle" }
