package orchestration

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/primefind/internal/aggregate"
	apperrors "github.com/agbru/primefind/internal/errors"
	"github.com/agbru/primefind/internal/logging"
	"github.com/agbru/primefind/internal/metrics"
	"github.com/agbru/primefind/internal/partition"
	"github.com/agbru/primefind/internal/prime"
	"github.com/agbru/primefind/internal/sink"
)

// ProgressBufferMultiplier sizes the progress channel per worker.
const ProgressBufferMultiplier = 5

// maxAggregateHint caps the aggregator preallocation for very large limits.
const maxAggregateHint = 1 << 16

const tracerName = "github.com/agbru/primefind/internal/orchestration"

// RunConfig is the validated input of one run.
type RunConfig struct {
	// UpperLimit is the inclusive upper bound U of the search space [1, U].
	UpperLimit int
	// Threads is the number of workers N, in [1, partition.MaxWorkers].
	Threads  int
	Division partition.Kind
	Print    sink.Kind
}

// RunResult is the outcome of a finalized run.
type RunResult struct {
	RunID string
	// Primes holds the discovered primes in arrival order.
	Primes   []int
	Workers  []WorkerReport
	Duration time.Duration
	Division partition.Kind
	Print    sink.Kind
}

// Orchestrator executes runs. An Orchestrator holds no per-run state, so
// several runs may execute concurrently on the same instance.
type Orchestrator struct {
	oracle      prime.Oracle
	out         io.Writer
	logger      logging.Logger
	reporter    ProgressReporter
	progressOut io.Writer
	metrics     *metrics.RunMetrics
	observer    StateObserver
	clock       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOracle sets the primality oracle. The default is prime.TrialDivision.
func WithOracle(o prime.Oracle) Option {
	return func(orch *Orchestrator) { orch.oracle = o }
}

// WithOutput sets the writer the sink prints to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(orch *Orchestrator) { orch.out = w }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(orch *Orchestrator) { orch.logger = l }
}

// WithProgressReporter sets the progress reporter and the writer it draws on.
func WithProgressReporter(r ProgressReporter, out io.Writer) Option {
	return func(orch *Orchestrator) {
		orch.reporter = r
		orch.progressOut = out
	}
}

// WithMetrics records worker and run statistics in m.
func WithMetrics(m *metrics.RunMetrics) Option {
	return func(orch *Orchestrator) { orch.metrics = m }
}

// WithStateObserver registers a callback for state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(orch *Orchestrator) { orch.observer = fn }
}

// WithClock replaces time.Now for discovery timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(orch *Orchestrator) { orch.clock = now }
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		oracle:   prime.TrialDivision{},
		out:      os.Stdout,
		logger:   logging.NopLogger{},
		reporter: NullProgressReporter{},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.progressOut == nil {
		o.progressOut = io.Discard
	}
	return o
}

// Run executes one search over [1, cfg.UpperLimit] with cfg.Threads workers.
//
// Configuration problems are reported as apperrors.ConfigError before any
// worker is spawned, any sink output is produced or the oracle is called.
// A failing worker aborts the run: the other workers stop at their next
// claim, the sink is not finalized and only the error is returned.
//
// ctx is used for tracing only. The run ignores cancellation of ctx.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	runID := uuid.NewString()
	ctx, span := otel.Tracer(tracerName).Start(context.WithoutCancel(ctx), "orchestration.Run",
		trace.WithAttributes(
			attribute.String("primefind.run_id", runID),
			attribute.Int("primefind.upper_limit", cfg.UpperLimit),
			attribute.Int("primefind.threads", cfg.Threads),
			attribute.String("primefind.division", cfg.Division.String()),
			attribute.String("primefind.print", cfg.Print.String()),
		))
	defer span.End()

	o.transition(runID, StateCreated)
	start := o.clock()

	part, snk, err := o.prepare(cfg)
	if err != nil {
		o.transition(runID, StateAborted)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid configuration")
		o.logger.Error("run rejected", err, logging.String("run_id", runID))
		return nil, err
	}

	fields := []logging.Field{
		logging.String("run_id", runID),
		logging.Int("upper_limit", cfg.UpperLimit),
		logging.Int("threads", cfg.Threads),
		logging.String("division", cfg.Division.String()),
		logging.String("print", cfg.Print.String()),
	}
	o.logger.Info("run started", fields...)

	agg := aggregate.New(min(prime.EstimateCount(cfg.UpperLimit), maxAggregateHint))
	reports := make([]WorkerReport, cfg.Threads)
	progressChan := make(chan ProgressUpdate, cfg.Threads*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go o.reporter.DisplayProgress(&displayWg, progressChan, RunPlan{
		RunID:      runID,
		Workers:    cfg.Threads,
		Candidates: candidateCount(cfg.UpperLimit),
		Division:   cfg.Division.String(),
	}, o.progressOut)

	g, gctx := errgroup.WithContext(ctx)
	abort := gctx.Done()
	o.transition(runID, StateRunning)
	for i := range cfg.Threads {
		w := &worker{
			id:       i,
			source:   part.Source(i),
			oracle:   o.oracle,
			agg:      agg,
			sink:     snk,
			progress: progressChan,
			abort:    abort,
			clock:    o.clock,
			logger:   o.logger,
			metrics:  o.metrics,
		}
		report := &reports[i]
		g.Go(func() error { return w.run(report) })
	}

	o.transition(runID, StateJoining)
	werr := g.Wait()
	close(progressChan)
	displayWg.Wait()

	var primes []int
	if werr == nil {
		primes, werr = o.finalize(agg, snk)
	}
	duration := o.clock().Sub(start)

	if werr != nil {
		o.transition(runID, StateAborted)
		o.observe(cfg, metrics.StatusAborted, duration)
		span.RecordError(werr)
		span.SetStatus(codes.Error, "run aborted")
		o.logger.Error("run aborted", werr, append(fields, logging.Duration("duration", duration))...)
		return nil, werr
	}

	o.transition(runID, StateFinalized)
	o.observe(cfg, metrics.StatusFinalized, duration)
	span.SetAttributes(attribute.Int("primefind.primes_found", len(primes)))
	o.logger.Info("run finalized", append(fields,
		logging.Int("primes", len(primes)),
		logging.Duration("duration", duration))...)

	return &RunResult{
		RunID:    runID,
		Primes:   primes,
		Workers:  reports,
		Duration: duration,
		Division: cfg.Division,
		Print:    cfg.Print,
	}, nil
}

// prepare validates cfg and builds the partitioner and the sink.
func (o *Orchestrator) prepare(cfg RunConfig) (partition.Partitioner, sink.Sink, error) {
	if cfg.Threads < 1 {
		return nil, nil, apperrors.NewConfigError("threads", "must be at least 1, got %d", cfg.Threads)
	}
	if cfg.Threads > partition.MaxWorkers {
		return nil, nil, apperrors.NewConfigError("threads", "must be at most %d, got %d", partition.MaxWorkers, cfg.Threads)
	}
	part, err := partition.New(cfg.Division, cfg.UpperLimit, cfg.Threads)
	if err != nil {
		return nil, nil, err
	}
	snk, err := sink.New(cfg.Print, o.out)
	if err != nil {
		return nil, nil, err
	}
	return part, snk, nil
}

// finalize drains the aggregator exactly once and hands the collection to
// the sink.
func (o *Orchestrator) finalize(agg *aggregate.Aggregator, snk sink.Sink) ([]int, error) {
	primes, err := agg.Drain()
	if err != nil {
		return nil, err
	}
	if err := snk.Finalize(primes); err != nil {
		return nil, fmt.Errorf("finalizing %s sink: %w", snk.Kind(), err)
	}
	return primes, nil
}

func (o *Orchestrator) transition(runID string, s State) {
	if o.observer != nil {
		o.observer(runID, s)
	}
}

func (o *Orchestrator) observe(cfg RunConfig, status string, d time.Duration) {
	if o.metrics != nil {
		o.metrics.ObserveRun(cfg.Division.String(), cfg.Print.String(), status, d)
	}
}

// candidateCount returns the size of [FirstCandidate, upper].
func candidateCount(upper int) uint64 {
	if upper < partition.FirstCandidate {
		return 0
	}
	return uint64(upper - partition.FirstCandidate + 1)
}
