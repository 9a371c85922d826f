package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// etaSmoothing is the weight of the newest rate sample in the
	// exponential moving average.
	etaSmoothing = 0.3
	// maxETA caps the estimate so very slow starts do not print absurd values.
	maxETA = 24 * time.Hour
)

// ETATracker estimates the time remaining from successive observations of
// an overall completion fraction. The rate is an exponential moving average
// of the fraction gained per second. It is safe for concurrent use.
type ETATracker struct {
	mu       sync.Mutex
	now      func() time.Time
	start    time.Time
	lastAt   time.Time
	fraction float64
	rate     float64 // fraction per second
}

// NewETATracker creates a tracker using the wall clock.
func NewETATracker() *ETATracker {
	return NewETATrackerWithClock(time.Now)
}

// NewETATrackerWithClock creates a tracker reading time from now.
func NewETATrackerWithClock(now func() time.Time) *ETATracker {
	t := now()
	return &ETATracker{now: now, start: t, lastAt: t}
}

// Observe records the completion fraction, clamped to [0, 1], and returns
// the new estimate. A fraction that does not advance, or an observation at
// the same instant as the previous one, leaves the rate unchanged.
func (t *ETATracker) Observe(fraction float64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	fraction = clamp01(fraction)
	at := t.now()
	if elapsed := at.Sub(t.lastAt).Seconds(); elapsed > 0 && fraction > t.fraction {
		sample := (fraction - t.fraction) / elapsed
		if t.rate == 0 {
			t.rate = sample
		} else {
			t.rate = etaSmoothing*sample + (1-etaSmoothing)*t.rate
		}
		t.fraction = fraction
		t.lastAt = at
	}
	return t.etaLocked()
}

// ETA returns the current estimate, 0 while unknown or once complete.
func (t *ETATracker) ETA() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.etaLocked()
}

// Fraction returns the last recorded completion fraction.
func (t *ETATracker) Fraction() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fraction
}

// Elapsed returns the time since the tracker was created.
func (t *ETATracker) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

func (t *ETATracker) etaLocked() time.Duration {
	if t.rate <= 0 || t.fraction >= 1 {
		return 0
	}
	eta := time.Duration((1 - t.fraction) / t.rate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// FormatETA renders an ETA compactly: "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta / time.Hour)
	m := int(eta%time.Hour) / int(time.Minute)
	s := int(eta%time.Minute) / int(time.Second)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders a bar of the given length for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = clamp01(progress)
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA combines a bar, a percentage and an ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
