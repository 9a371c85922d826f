package partition

import "sync/atomic"

// DynamicCounter shares one atomic counter, starting at FirstCandidate,
// between all workers. Each claim is a single fetch-and-increment, so every
// integer is handed to exactly one worker.
type DynamicCounter struct {
	upper   int64
	workers int
	counter atomic.Int64
}

// Verify interface compliance.
var _ Partitioner = (*DynamicCounter)(nil)

// NewDynamicCounter creates the shared counter for [FirstCandidate, upper].
func NewDynamicCounter(upper, workers int) *DynamicCounter {
	d := &DynamicCounter{upper: int64(upper), workers: workers}
	d.counter.Store(FirstCandidate)
	return d
}

func (*DynamicCounter) sealed() {}

// Kind returns Queue.
func (*DynamicCounter) Kind() Kind { return Queue }

// Workers returns the worker count the counter was created for.
func (d *DynamicCounter) Workers() int { return d.workers }

// Peek returns the value the next claim would receive.
func (d *DynamicCounter) Peek() int64 { return d.counter.Load() }

// Source returns a claimer bound to the shared counter.
func (d *DynamicCounter) Source(int) Source {
	return &counterSource{d: d}
}

// claim performs one fetch-and-increment and reports whether the claimed
// value is inside the search space.
func (d *DynamicCounter) claim() (int, bool) {
	c := d.counter.Add(1) - 1
	if c > d.upper {
		return 0, false
	}
	return int(c), true
}

type counterSource struct {
	d    *DynamicCounter
	done bool
}

func (c *counterSource) Next() (int, bool) {
	if c.done {
		return 0, false
	}
	n, ok := c.d.claim()
	if !ok {
		c.done = true
	}
	return n, ok
}

func (c *counterSource) Describe() string { return "shared counter" }
