package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openfroyo/vendcheck/pkg/inventory"
	"github.com/openfroyo/vendcheck/pkg/machine"
	"github.com/openfroyo/vendcheck/pkg/stores"
	"github.com/openfroyo/vendcheck/pkg/telemetry"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 4

// Run statuses reported by Summary.Status.
const (
	StatusSucceeded = "succeeded"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

// Runner evaluates every machine record of a store and writes one report
// per record.
type Runner struct {
	// store supplies inputs and receives reports
	store stores.Store

	// evaluator is shared by all workers
	evaluator *inventory.Evaluator

	// schemas, when set, validates raw inputs before decoding
	schemas *machine.SchemaRegistry

	// workers is the maximum number of records processed concurrently
	workers int

	tel *telemetry.Telemetry
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the worker count. Values below one select DefaultWorkers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(e *inventory.Evaluator) Option {
	return func(r *Runner) {
		r.evaluator = e
	}
}

// WithSchemaRegistry enables schema validation of raw inputs.
func WithSchemaRegistry(sr *machine.SchemaRegistry) Option {
	return func(r *Runner) {
		r.schemas = sr
	}
}

// WithTelemetry sets the logging, tracing and metrics sinks.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(r *Runner) {
		r.tel = t
	}
}

// NewRunner creates a runner over the given store.
func NewRunner(store stores.Store, opts ...Option) *Runner {
	r := &Runner{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.evaluator == nil {
		r.evaluator = inventory.NewEvaluator()
	}
	if r.tel == nil {
		r.tel = telemetry.NewNoop()
	}
	return r
}

// FileResult is the outcome of one successfully processed input.
type FileResult struct {
	// ID is the input identifier.
	ID string `json:"id"`

	// OutletCount is the outlet count declared by the record.
	OutletCount int `json:"outlet_count"`

	// Report holds one result per beverage in catalog order.
	Report inventory.Report `json:"report"`

	// Inventory is the stock left after evaluation.
	Inventory *inventory.Inventory `json:"inventory"`

	// Duration is the processing time of the input.
	Duration time.Duration `json:"duration"`
}

// Summary aggregates the outcome of a batch run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Files     int           `json:"files"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Prepared  int           `json:"prepared"`
	Rejected  int           `json:"rejected"`
	Errors    []*FileError  `json:"errors,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Status classifies the run: failed when no input succeeded but some failed,
// partial when both happened, succeeded otherwise.
func (s *Summary) Status() string {
	switch {
	case s.Failed > 0 && s.Succeeded > 0:
		return StatusPartial
	case s.Failed > 0:
		return StatusFailed
	default:
		return StatusSucceeded
	}
}

func (s *Summary) add(res *FileResult, err error) {
	if err != nil {
		s.Failed++
		if fe, ok := AsFileError(err); ok {
			s.Errors = append(s.Errors, fe)
		}
		return
	}
	s.Succeeded++
	prepared, rejected := res.Report.Counts()
	s.Prepared += prepared
	s.Rejected += rejected
}

// Run resets the output, lists the inputs and processes them with a bounded
// worker pool. Per-file failures are recorded in the summary and never abort
// the run. An error is returned only when the output cannot be reset, the
// inputs cannot be listed, or ctx is cancelled; inputs not yet started at
// cancellation are left unprocessed.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	ctx, logger := r.runContext(ctx, runID)

	ctx, span := r.tel.Tracer.StartRunSpan(ctx, runID)
	defer span.End()

	r.tel.Metrics.RecordRunStarted()
	timer := telemetry.NewTimer()

	summary := &Summary{
		RunID:     runID,
		StartedAt: time.Now(),
	}

	finish := func(err error) (*Summary, error) {
		summary.Duration = timer.Duration()
		status := summary.Status()
		if err != nil {
			status = StatusFailed
			telemetry.RecordError(span, err)
		} else {
			telemetry.RecordSuccess(span)
		}
		r.tel.Metrics.RecordRunCompleted(status, summary.Duration)
		return summary, err
	}

	if err := r.store.Reset(ctx); err != nil {
		logger.WithError(err).Error("Failed to reset output")
		return finish(fmt.Errorf("failed to reset output: %w", err))
	}

	ids, err := r.store.ListInputs(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to list inputs")
		return finish(fmt.Errorf("failed to list inputs: %w", err))
	}
	summary.Files = len(ids)

	logger.WithFields(map[string]interface{}{
		"files":   len(ids),
		"workers": r.workers,
	}).Info("Run started")

	r.processAll(ctx, runID, ids, summary)

	if err := ctx.Err(); err != nil {
		logger.WithError(err).Warn("Run cancelled")
		return finish(err)
	}

	summary, err = finish(nil)
	logger.WithFields(map[string]interface{}{
		"status":    summary.Status(),
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"prepared":  summary.Prepared,
		"rejected":  summary.Rejected,
		"duration":  summary.Duration.String(),
	}).Info("Run completed")
	return summary, err
}

// runContext attaches the runner's telemetry and a run-scoped logger to ctx.
func (r *Runner) runContext(ctx context.Context, runID string) (context.Context, *telemetry.Logger) {
	logger := r.tel.Logger.NewComponentLogger("batch").WithRunID(runID)
	return logger.WithContext(r.tel.WithContext(ctx)), logger
}

// processAll runs the inputs through a worker pool and folds the outcomes
// into summary.
func (r *Runner) processAll(ctx context.Context, runID string, ids []string, summary *Summary) {
	if len(ids) == 0 {
		return
	}

	workerCount := r.workers
	if len(ids) < workerCount {
		workerCount = len(ids)
	}

	workQueue := make(chan string, len(ids))
	for _, id := range ids {
		workQueue <- id
	}
	close(workQueue)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for id := range workQueue {
				select {
				case <-ctx.Done():
					return
				default:
				}

				res, err := r.process(ctx, runID, id)

				mu.Lock()
				summary.add(res, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	sort.Slice(summary.Errors, func(i, j int) bool {
		return summary.Errors[i].ID < summary.Errors[j].ID
	})
}

// ProcessOne processes a single input outside of a full run, as watch mode
// does when a record changes. The returned error is a *FileError.
func (r *Runner) ProcessOne(ctx context.Context, id string) (*FileResult, error) {
	runID := uuid.New().String()
	ctx, _ = r.runContext(ctx, runID)
	return r.process(ctx, runID, id)
}

// process runs one input through the pipeline as an instrumented
// "machine.evaluate" operation. ctx must carry the runner's telemetry.
func (r *Runner) process(ctx context.Context, runID, id string) (*FileResult, error) {
	ic := telemetry.StartOperation(ctx, "machine.evaluate",
		telemetry.AttrRunID.String(runID),
		telemetry.AttrInput.String(id),
	)
	log := ic.Logger.WithInput(id)

	res, fe := r.pipeline(ic.Ctx, id)
	duration := ic.Timer.Duration()

	if fe != nil {
		ic.Span.SetAttributes(telemetry.AttrErrorStage.String(string(fe.Stage)))
		ic.End(fe)
		r.tel.Metrics.RecordFileError(string(fe.Stage))
		r.tel.Metrics.RecordMachineEvaluated(StatusFailed, duration)
		log.WithError(fe.Err).WithField("stage", fe.Stage).Warn("Skipping input")
		return nil, fe
	}

	res.Duration = duration
	prepared, rejected := res.Report.Counts()
	report := stores.ReportName(id)

	ic.Span.SetAttributes(
		telemetry.AttrOutlets.Int(res.OutletCount),
		telemetry.AttrBeverages.Int(len(res.Report)),
		telemetry.AttrPrepared.Int(prepared),
		telemetry.AttrRejected.Int(rejected),
	)
	telemetry.AddEvent(ic.Span, "report.written", telemetry.AttrReport.String(report))
	ic.End(nil)

	for _, result := range res.Report {
		reason := ""
		if !result.Prepared {
			reason = result.Reason.Kind.String()
		}
		r.tel.Metrics.RecordBeverage(result.Prepared, reason)
	}
	r.tel.Metrics.RecordMachineEvaluated(StatusSucceeded, duration)

	log.WithFields(map[string]interface{}{
		"report":   report,
		"prepared": prepared,
		"rejected": rejected,
	}).Info("Report written")

	return res, nil
}

// pipeline reads, decodes, evaluates and writes one input. Evaluation itself
// cannot fail: every well-formed record yields a report.
func (r *Runner) pipeline(ctx context.Context, id string) (*FileResult, *FileError) {
	data, err := r.store.ReadInput(ctx, id)
	if err != nil {
		return nil, newFileError(id, StageRead, err)
	}

	if r.schemas != nil {
		if err := r.schemas.Validate(ctx, id, data); err != nil {
			return nil, newFileError(id, StageDecode, err)
		}
	}

	rec, err := machine.Decode(id, data)
	if err != nil {
		return nil, newFileError(id, StageDecode, err)
	}

	final, report := r.evaluator.Evaluate(rec.Inventory, rec.Catalog)

	if err := r.store.WriteReport(ctx, id, report.String()); err != nil {
		return nil, newFileError(id, StageWrite, err)
	}

	return &FileResult{
		ID:          id,
		OutletCount: rec.OutletCount,
		Report:      report,
		Inventory:   final,
	}, nil
}

// Watcher delivers identifiers of inputs that changed.
type Watcher interface {
	Watch(ctx context.Context, delay time.Duration, fn func(id string)) error
}

// Watch reprocesses each input reported by w until ctx is done. Failures
// are logged and counted like those of a full run.
func (r *Runner) Watch(ctx context.Context, w Watcher, delay time.Duration) error {
	return w.Watch(ctx, delay, func(id string) {
		_, _ = r.ProcessOne(ctx, id)
	})
}
