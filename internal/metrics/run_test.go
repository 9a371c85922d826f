package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRunMetrics_Counters(t *testing.T) {
	t.Parallel()
	m := NewRunMetrics()

	m.WorkerStarted()
	m.WorkerStarted()
	if got := testutil.ToFloat64(m.activeWorkers); got != 2 {
		t.Errorf("active workers = %v, want 2", got)
	}
	m.WorkerFinished(15, 6)
	m.WorkerFinished(14, 4)

	if got := testutil.ToFloat64(m.activeWorkers); got != 0 {
		t.Errorf("active workers = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.candidatesExamined); got != 29 {
		t.Errorf("candidates examined = %v, want 29", got)
	}
	if got := testutil.ToFloat64(m.primesFound); got != 10 {
		t.Errorf("primes found = %v, want 10", got)
	}

	m.ObserveRun("range", "batch", StatusFinalized, 3*time.Millisecond)
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("range", "batch", StatusFinalized)); got != 1 {
		t.Errorf("runs_total = %v, want 1", got)
	}
}

func TestRunMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()
	a, b := NewRunMetrics(), NewRunMetrics()
	a.WorkerFinished(100, 25)
	a.WorkerStarted()

	if got := testutil.ToFloat64(b.primesFound); got != 0 {
		t.Errorf("second instance saw %v primes, want 0", got)
	}
	if a.Registry() == b.Registry() {
		t.Error("each RunMetrics must own its registry")
	}
}

func TestRunMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()
	m := NewRunMetrics()
	m.WorkerStarted()
	m.WorkerFinished(29, 10)
	m.ObserveRun("queue", "immediate", StatusAborted, time.Second)

	path := filepath.Join(t.TempDir(), "primefind.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{
		"primefind_primes_found_total 10",
		"primefind_candidates_examined_total 29",
		`primefind_runs_total{division="queue",print="immediate",status="aborted"} 1`,
		"primefind_run_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("textfile should contain %q", want)
		}
	}
}
