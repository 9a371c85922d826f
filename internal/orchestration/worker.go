package orchestration

import (
	"fmt"
	"time"

	"github.com/agbru/primefind/internal/aggregate"
	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/logging"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/partition"
	"github.com/agbru/primefind/internal/prime"
	"github.com/agbru/primefind/internal/sink"
)

// ProgressInterval is the number of candidates a worker examines between two
// progress updates.
const ProgressInterval = 4096

// WorkerReport is the per-worker diagnostic returned with a RunResult.
type WorkerReport struct {
	Worker     int
	Assignment string
	Examined   uint64
	Found      int
	Duration   time.Duration
}

// worker holds explicit references to everything it shares with the other
// workers of the run.
type worker struct {
	id       int
	source   partition.Source
	oracle   prime.Oracle
	agg      *aggregate.Aggregator
	sink     sink.Sink
	progress chan<- ProgressUpdate
	abort    <-chan struct{}
	clock    func() time.Time
	logger   logging.Logger
	metrics  *metrics.RunMetrics
}

// run examines candidates until the source is exhausted or the run is
// aborted. An oracle error or panic is returned as a WorkerError.
func (w *worker) run(report *WorkerReport) (err error) {
	report.Worker = w.id
	report.Assignment = w.source.Describe()
	start := w.clock()
	candidate := 0

	if w.metrics != nil {
		w.metrics.WorkerStarted()
	}
	w.logger.Debug("worker started", logging.Int("worker", w.id), logging.String("assignment", report.Assignment))

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.WorkerError{Worker: w.id, Candidate: candidate, Cause: fmt.Errorf("panic: %v", r)}
		}
		report.Duration = w.clock().Sub(start)
		if w.metrics != nil {
			w.metrics.WorkerFinished(report.Examined, report.Found)
		}
		w.publish(report.Examined, true)
		w.logger.Debug("worker finished",
			logging.Int("worker", w.id),
			logging.Uint64("examined", report.Examined),
			logging.Int("found", report.Found))
	}()

	for {
		select {
		case <-w.abort:
			return nil
		default:
		}

		n, ok := w.source.Next()
		if !ok {
			return nil
		}
		candidate = n

		isPrime, oerr := w.oracle.IsPrime(n)
		report.Examined++
		if oerr != nil {
			return apperrors.WorkerError{Worker: w.id, Candidate: n, Cause: oerr}
		}
		if isPrime && n >= partition.FirstCandidate {
			w.agg.Append(n)
			w.sink.Report(n, w.id, w.clock())
			report.Found++
		}
		if report.Examined%ProgressInterval == 0 {
			w.publish(report.Examined, false)
		}
	}
}

// publish never blocks: a full channel drops the update.
func (w *worker) publish(examined uint64, done bool) {
	select {
	case w.progress <- ProgressUpdate{Worker: w.id, Examined: examined, Done: done}:
	default:
	}
}
