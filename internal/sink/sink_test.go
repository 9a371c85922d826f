package sink

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	os.Exit(m.Run())
}

// syncBuffer is a bytes.Buffer that records every Write call separately.
type syncBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes int
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestParseKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"immediate", Immediate, false},
		{"IMMEDIATE", Immediate, false},
		{"Batch", Batch, false},
		{"batch ", Batch, false},
		{"bulk", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !apperrors.IsConfigError(err) {
				t.Errorf("ParseKind(%q) error = %v, want ConfigError", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	for _, k := range []Kind{Immediate, Batch} {
		s, err := New(k, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("New(%v) error: %v", k, err)
		}
		if s.Kind() != k {
			t.Errorf("New(%v).Kind() = %v", k, s.Kind())
		}
	}
	if _, err := New(Kind(9), &bytes.Buffer{}); !apperrors.IsConfigError(err) {
		t.Errorf("New(unknown) error = %v, want ConfigError", err)
	}
}

func TestBatchFinalizeSortsValues(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := NewBatch(&out)
	for _, v := range []int{5, 3, 2} {
		s.Report(v, 0, time.Now())
	}
	if out.Len() != 0 {
		t.Fatalf("batch Report should not write, got %q", out.String())
	}
	if got := s.Buffered(); len(got) != 3 {
		t.Fatalf("Buffered() = %v", got)
	}

	all := []int{5, 3, 2}
	if err := s.Finalize(all); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	want := "[BATCH] All workers completed. Found primes:\n" +
		"2, 3, 5\n" +
		"[BATCH] Total primes found: 3\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
	if all[0] != 5 {
		t.Error("Finalize must not reorder the caller's slice")
	}
}

func TestBatchFinalizeWrapsLines(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	values := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	if err := NewBatch(&out).Finalize(values); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, two value lines and total, got %q", lines)
	}
	if lines[1] != "2, 3, 5, 7, 11, 13, 17, 19, 23, 29" || lines[2] != "31, 37" {
		t.Errorf("value lines = %q / %q", lines[1], lines[2])
	}
	if lines[3] != "[BATCH] Total primes found: 12" {
		t.Errorf("total line = %q", lines[3])
	}
}

func TestBatchFinalizeEmpty(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := NewBatch(&out).Finalize(nil); err != nil {
		t.Fatal(err)
	}
	want := "[BATCH] All workers completed. Found primes:\n[BATCH] Total primes found: 0\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestImmediateConcurrentReportsDoNotInterleave(t *testing.T) {
	t.Parallel()
	const (
		goroutines = 4
		perWorker  = 250
	)
	out := &syncBuffer{}
	s := NewImmediate(out)
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for w := 0; w < goroutines; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.Report(w*perWorker+i, w, at)
			}
		}(w)
	}
	wg.Wait()

	if s.Reported() != goroutines*perWorker {
		t.Fatalf("Reported() = %d", s.Reported())
	}
	if out.writes != goroutines*perWorker {
		t.Errorf("expected one Write per report, got %d", out.writes)
	}

	pattern := regexp.MustCompile(`^\[IMMEDIATE\] Worker [0-3] found prime: \d+ at Tue Mar 05 14:07:09 2024$`)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != goroutines*perWorker {
		t.Fatalf("got %d lines, want %d", len(lines), goroutines*perWorker)
	}
	for _, line := range lines {
		if !pattern.MatchString(line) {
			t.Fatalf("corrupted line: %q", line)
		}
	}
}

func TestImmediateFinalize(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := NewImmediate(&out)
	s.Report(7, 1, time.Now())
	if err := s.Finalize([]int{7}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "[IMMEDIATE] Total primes found: 1\n") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestSinkWriteErrors(t *testing.T) {
	t.Parallel()
	imm := NewImmediate(failingWriter{})
	imm.Report(2, 0, time.Now())
	if err := imm.Finalize([]int{2}); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("immediate Finalize error = %v, want remembered write error", err)
	}

	if err := NewBatch(failingWriter{}).Finalize([]int{2}); err == nil {
		t.Error("batch Finalize should surface the write error")
	}
}

func ExampleBatchSink_Finalize() {
	ui.SetCurrentTheme(ui.NoColorTheme)
	s := NewBatch(os.Stdout)
	_ = s.Finalize([]int{7, 2, 5, 3})
	fmt.Println("done")
	// Output:
	// [BATCH] All workers completed. Found primes:
	// 2, 3, 5, 7
	// [BATCH] Total primes found: 4
	// done
}
