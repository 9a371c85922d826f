package format

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func within(got, want, tolerance time.Duration) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func TestETATrackerUnknownUntilProgress(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	tracker := NewETATrackerWithClock(clock.Now)

	if eta := tracker.ETA(); eta != 0 {
		t.Errorf("ETA before any observation = %v, want 0", eta)
	}
	// Same instant as creation: no rate can be derived.
	if eta := tracker.Observe(0.5); eta != 0 {
		t.Errorf("ETA at zero elapsed time = %v, want 0", eta)
	}
	if tracker.Fraction() != 0 {
		t.Errorf("Fraction() = %v, want 0", tracker.Fraction())
	}
}

func TestETATrackerSmoothsRate(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	tracker := NewETATrackerWithClock(clock.Now)

	// 10% in 10s: 0.01/s, 0.9 left.
	clock.Advance(10 * time.Second)
	if eta := tracker.Observe(0.1); !within(eta, 90*time.Second, time.Millisecond) {
		t.Errorf("first estimate = %v, want ~90s", eta)
	}

	// 20% more in 10s: sample 0.02/s, smoothed 0.3*0.02 + 0.7*0.01 = 0.013/s.
	clock.Advance(10 * time.Second)
	want := time.Duration(0.7 / 0.013 * float64(time.Second))
	if eta := tracker.Observe(0.3); !within(eta, want, time.Millisecond) {
		t.Errorf("smoothed estimate = %v, want ~%v", eta, want)
	}
	if got := tracker.Elapsed(); got != 20*time.Second {
		t.Errorf("Elapsed() = %v, want 20s", got)
	}
}

func TestETATrackerIgnoresRegression(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	tracker := NewETATrackerWithClock(clock.Now)

	clock.Advance(4 * time.Second)
	before := tracker.Observe(0.4)
	clock.Advance(4 * time.Second)
	if after := tracker.Observe(0.2); after != before {
		t.Errorf("a lower fraction changed the estimate: %v -> %v", before, after)
	}
	if tracker.Fraction() != 0.4 {
		t.Errorf("Fraction() = %v, want 0.4", tracker.Fraction())
	}
}

func TestETATrackerBounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		advance  time.Duration
		fraction float64
		want     time.Duration
	}{
		{"complete", time.Second, 1, 0},
		{"above one is complete", time.Second, 7, 0},
		{"negative is no progress", time.Second, -0.5, 0},
		{"slow start is capped", 1000 * time.Hour, 0.001, maxETA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clock := newFakeClock()
			tracker := NewETATrackerWithClock(clock.Now)
			clock.Advance(tt.advance)
			if got := tracker.Observe(tt.fraction); got != tt.want {
				t.Errorf("Observe(%v) = %v, want %v", tt.fraction, got, tt.want)
			}
		})
	}
}

func TestETATrackerConcurrentObserve(t *testing.T) {
	t.Parallel()
	tracker := NewETATracker()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 1; i <= 100; i++ {
				tracker.Observe(float64(i) / 100)
				_ = tracker.ETA()
			}
		}(w)
	}
	wg.Wait()
	if f := tracker.Fraction(); f < 0 || f > 1 {
		t.Errorf("Fraction() = %v out of [0, 1]", f)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{45 * time.Second, "45s"},
		{89600 * time.Millisecond, "1m30s"},
		{2 * time.Minute, "2m"},
		{150 * time.Second, "2m30s"},
		{2 * time.Hour, "2h"},
		{75 * time.Minute, "1h15m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		progress float64
		length   int
		want     string
	}{
		{"half", 0.5, 4, "██░░"},
		{"empty", 0, 3, "░░░"},
		{"negative clamps to empty", -1, 3, "░░░"},
		{"overflow clamps to full", 2, 2, "██"},
		{"zero length", 0.5, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressBar(tt.progress, tt.length); got != tt.want {
				t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.progress, tt.length, got, tt.want)
			}
		})
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.25, 45*time.Second, 4)
	if want := "[█░░░]  25.0% ETA: 45s"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	got = FormatProgressBarWithETA(1.5, 0, 2)
	if want := "[██] 100.0% ETA: calculating..."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatNumberString(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":         "",
		"7":        "7",
		"-123":     "-123",
		"1234":     "1,234",
		"123456":   "123,456",
		"1999999":  "1,999,999",
		"-1234567": "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumberString(in); got != want {
			t.Errorf("FormatNumberString(%q) = %q, want %q", in, got, want)
		}
	}
	if got := FormatInt(-1000); got != "-1,000" {
		t.Errorf("FormatInt(-1000) = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		b    uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{1 << 30, "1.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.b); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}
