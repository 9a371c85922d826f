package partition

import "fmt"

// Span is an inclusive interval [Start, End]. It is empty when Start > End.
type Span struct {
	Start int
	End   int
}

// Len returns the number of integers in the interval.
func (r Span) Len() int {
	if r.Start > r.End {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether n lies in the interval.
func (r Span) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

// String formats the interval as "start-end".
func (r Span) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// StaticRanges splits [1, U] into contiguous sub-ranges of size U/N. The last
// worker absorbs the remainder U mod N.
type StaticRanges struct {
	upper  int
	ranges []Span
}

// Verify interface compliance.
var _ Partitioner = (*StaticRanges)(nil)

// NewStaticRanges computes the sub-ranges of [1, upper] for workers >= 1.
// When upper < 1 every sub-range is empty.
func NewStaticRanges(upper, workers int) *StaticRanges {
	ranges := make([]Span, workers)
	if upper < 1 {
		for i := range ranges {
			ranges[i] = Span{Start: 1, End: 0}
		}
		return &StaticRanges{upper: upper, ranges: ranges}
	}

	size := upper / workers
	for i := range ranges {
		ranges[i] = Span{Start: i*size + 1, End: (i + 1) * size}
	}
	ranges[workers-1].End += upper % workers
	return &StaticRanges{upper: upper, ranges: ranges}
}

func (*StaticRanges) sealed() {}

// Kind returns Range.
func (*StaticRanges) Kind() Kind { return Range }

// Workers returns the number of sub-ranges.
func (s *StaticRanges) Workers() int { return len(s.ranges) }

// Ranges returns a copy of the sub-ranges, in worker order.
func (s *StaticRanges) Ranges() []Span {
	out := make([]Span, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Source returns a sequential scanner over the worker's sub-range, starting
// no lower than FirstCandidate.
func (s *StaticRanges) Source(worker int) Source {
	if worker < 0 || worker >= len(s.ranges) {
		return emptySource{}
	}
	r := s.ranges[worker]
	return &rangeSource{
		assigned: r,
		next:     max(r.Start, FirstCandidate),
		end:      r.End,
	}
}

// rangeSource walks [next, end] one integer at a time.
type rangeSource struct {
	assigned Span
	next     int
	end      int
	done     bool
}

func (r *rangeSource) Next() (int, bool) {
	if r.done || r.next > r.end {
		return 0, false
	}
	n := r.next
	// Stop explicitly on the last value so next never overflows.
	if n == r.end {
		r.done = true
	} else {
		r.next++
	}
	return n, true
}

func (r *rangeSource) Describe() string {
	return "range " + r.assigned.String()
}
