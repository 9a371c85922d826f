package tui

// sparkLevels are the eight block heights of a sparkline, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sampleWindow keeps the most recent percentage samples, up to limit.
type sampleWindow struct {
	values []float64
	limit  int
}

func newSampleWindow(limit int) *sampleWindow {
	return &sampleWindow{limit: max(limit, 1)}
}

// Push appends a sample and drops the oldest ones beyond the limit.
func (w *sampleWindow) Push(v float64) {
	w.values = append(w.values, v)
	w.trim()
}

// SetLimit changes how many samples are kept; the newest survive.
func (w *sampleWindow) SetLimit(limit int) {
	w.limit = max(limit, 1)
	w.trim()
}

func (w *sampleWindow) trim() {
	if extra := len(w.values) - w.limit; extra > 0 {
		w.values = append([]float64(nil), w.values[extra:]...)
	}
}

// Last returns the newest sample, 0 when empty.
func (w *sampleWindow) Last() float64 {
	if len(w.values) == 0 {
		return 0
	}
	return w.values[len(w.values)-1]
}

// Sparkline renders one block per sample, oldest on the left. Samples are
// percentages and are clamped to [0, 100].
func (w *sampleWindow) Sparkline() string {
	out := make([]rune, len(w.values))
	top := len(sparkLevels) - 1
	for i, v := range w.values {
		v = min(max(v, 0), 100)
		out[i] = sparkLevels[min(int(v/100*float64(top)), top)]
	}
	return string(out)
}
