package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "primefind"

// Run status label values.
const (
	StatusFinalized = "finalized"
	StatusAborted   = "aborted"
)

// RunMetrics holds the Prometheus collectors of one orchestrator. Each
// instance owns its registry, so independent orchestrators never share
// metric state.
type RunMetrics struct {
	registry *prometheus.Registry

	primesFound        prometheus.Counter
	candidatesExamined prometheus.Counter
	runsTotal          *prometheus.CounterVec
	runDuration        *prometheus.HistogramVec
	activeWorkers      prometheus.Gauge
}

// NewRunMetrics creates the collectors and registers them, together with
// the Go runtime collector, on a fresh registry.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		primesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "primes_found_total",
			Help:      "Number of primes discovered by workers.",
		}),
		candidatesExamined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_examined_total",
			Help:      "Number of candidates passed to the primality oracle.",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of runs by division mode, print mode and final state.",
		}, []string{"division", "print", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"division"}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Number of worker goroutines currently running.",
		}),
	}
	m.registry.MustRegister(
		m.primesFound,
		m.candidatesExamined,
		m.runsTotal,
		m.runDuration,
		m.activeWorkers,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *RunMetrics) Registry() *prometheus.Registry { return m.registry }

// WorkerStarted increments the active worker gauge.
func (m *RunMetrics) WorkerStarted() { m.activeWorkers.Inc() }

// WorkerFinished records a worker's totals and decrements the gauge.
func (m *RunMetrics) WorkerFinished(examined uint64, found int) {
	m.activeWorkers.Dec()
	m.candidatesExamined.Add(float64(examined))
	m.primesFound.Add(float64(found))
}

// ObserveRun records the outcome of one run.
func (m *RunMetrics) ObserveRun(division, printMode, status string, d time.Duration) {
	m.runsTotal.WithLabelValues(division, printMode, status).Inc()
	m.runDuration.WithLabelValues(division).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
