// Package aggregate collects the primes found by concurrent workers.
package aggregate

import (
	"errors"
	"sync"
)

// ErrDrained is returned by Drain when the aggregator has already been drained.
var ErrDrained = errors.New("aggregate: already drained")

// Aggregator is an append-only collection shared by all workers of a run.
// Append may be called concurrently; Drain is called once, after every
// worker has been joined.
type Aggregator struct {
	mu      sync.Mutex
	values  []int
	drained bool
}

// New returns an empty Aggregator with room for sizeHint values.
func New(sizeHint int) *Aggregator {
	return &Aggregator{values: make([]int, 0, max(sizeHint, 0))}
}

// Append records one value. It never loses or duplicates a value, whatever
// the interleaving of concurrent callers.
func (a *Aggregator) Append(v int) {
	a.mu.Lock()
	a.values = append(a.values, v)
	a.mu.Unlock()
}

// Len returns the number of values appended so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.values)
}

// Drain hands over the collected values in arrival order and closes the
// aggregator. Values appended after Drain are kept out of the returned slice.
func (a *Aggregator) Drain() ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.drained {
		return nil, ErrDrained
	}
	a.drained = true
	out := a.values
	a.values = nil
	return out, nil
}
