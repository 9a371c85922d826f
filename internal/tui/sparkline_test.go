package tui

import (
	"reflect"
	"testing"
)

func TestSampleWindow(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		push  []float64
		relim int
		want  []float64
	}{
		{"empty", 3, nil, 0, nil},
		{"below limit", 3, []float64{1, 2}, 0, []float64{1, 2}},
		{"drops oldest", 3, []float64{1, 2, 3, 4}, 0, []float64{2, 3, 4}},
		{"non-positive limit keeps one", 0, []float64{5, 6}, 0, []float64{6}},
		{"shrinking keeps newest", 4, []float64{1, 2, 3, 4}, 2, []float64{3, 4}},
		{"growing keeps everything", 2, []float64{1, 2, 3}, 5, []float64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSampleWindow(tt.limit)
			for _, v := range tt.push {
				w.Push(v)
			}
			if tt.relim > 0 {
				w.SetLimit(tt.relim)
			}
			if !reflect.DeepEqual(w.values, tt.want) {
				t.Errorf("values = %v, want %v", w.values, tt.want)
			}
			var last float64
			if len(tt.want) > 0 {
				last = tt.want[len(tt.want)-1]
			}
			if w.Last() != last {
				t.Errorf("Last() = %v, want %v", w.Last(), last)
			}
		})
	}
}

func TestSampleWindowSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"idle", []float64{0, 0}, "▁▁"},
		{"saturated", []float64{100}, "█"},
		{"gradient", []float64{0, 50, 100}, "▁▄█"},
		{"out of range clamps", []float64{-10, 250}, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSampleWindow(10)
			for _, v := range tt.values {
				w.Push(v)
			}
			if got := w.Sparkline(); got != tt.want {
				t.Errorf("Sparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}
