package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/dbsweep/dbsweep/internal/core"
	"github.com/dbsweep/dbsweep/internal/domain/model"
	apperrors "github.com/dbsweep/dbsweep/internal/errors"
	obserrors "github.com/dbsweep/dbsweep/internal/observability/errors"
	"github.com/dbsweep/dbsweep/internal/observability/metrics"
	"github.com/dbsweep/dbsweep/internal/observability/statsd"
)

// EngineOptions groups dependencies for Engine.
type EngineOptions struct {
	Store   core.TableStore    // Required: plan execution against the database
	Sinks   core.SinkResolver  // Required when any job dumps
	Audit   core.AuditRecorder // Required: audit record sink
	Logger  *slog.Logger       // Optional: structured logger
	Metrics statsd.Sink        // Optional: metrics sink (StatsD-compatible)

	// RunID identifies this invocation in audit records.
	RunID string
	// DryRun computes and logs intended actions but sends no DELETE and,
	// unless DumpPreview is set, performs no dump.
	DryRun bool
	// DumpPreview performs dump uploads even in dry-run mode.
	DumpPreview bool

	// Now supplies the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time
}

// Engine executes configured table jobs one at a time, in order, carrying
// each through a fixed-order state machine:
//
//	Pending → RuleEvaluated → (DumpCompleted | DumpSkipped) →
//	(Deleted | DeleteSkippedDryRun) → Recorded
//
// Per-job failures are isolated: every configured job is attempted and every
// started job reaches Recorded. Cancellation is honored only at job
// boundaries so a dump-then-delete sequence is never interrupted mid-flight.
type Engine struct {
	store core.TableStore
	sinks core.SinkResolver
	audit core.AuditRecorder

	logger  *slog.Logger
	metrics statsd.Sink

	runID       string
	dryRun      bool
	dumpPreview bool
	now         func() time.Time
}

// NewEngine constructs a new Engine.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("TableStore is required")
	}
	if opts.Audit == nil {
		return nil, errors.New("AuditRecorder is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweep_engine")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		store:       opts.Store,
		sinks:       opts.Sinks,
		audit:       opts.Audit,
		logger:      logger,
		metrics:     opts.Metrics,
		runID:       opts.RunID,
		dryRun:      opts.DryRun,
		dumpPreview: opts.DumpPreview,
		now:         now,
	}, nil
}

// Run processes every job and returns the run summary. The returned summary,
// not an error, carries per-job outcomes; only the caller decides how
// failures map to an exit status.
func (e *Engine) Run(ctx context.Context, jobs []model.TableJob) model.RunSummary {
	start := e.now()
	summary := model.RunSummary{
		RunID:     e.runID,
		Mode:      e.mode(),
		StartedAt: start,
		Total:     len(jobs),
	}

	ordered := orderJobs(jobs)
	for i, job := range ordered {
		// Cancellation is checked only here, never inside a job.
		if ctx.Err() != nil {
			summary.Skipped = len(ordered) - i
			if e.logger != nil {
				e.logger.InfoContext(ctx, "run cancelled at job boundary",
					"remaining", summary.Skipped, "reason", ctx.Err())
			}
			break
		}

		rec := e.processJob(ctx, job)
		e.audit.Record(rec)
		summary.Records = append(summary.Records, rec)

		if rec.Outcome == model.OutcomeSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	summary.Elapsed = e.now().Sub(start)
	e.emitRunMetrics(summary)
	return summary
}

// processJob carries one job from Pending to Recorded. The returned record
// is final; callers must not mutate it.
func (e *Engine) processJob(ctx context.Context, job model.TableJob) model.AuditRecord {
	start := e.now()
	rec := model.AuditRecord{
		RunID:     e.runID,
		Job:       job.Name,
		Table:     job.Table,
		Timestamp: start.UTC(),
		Mode:      e.mode(),
		State:     model.JobStatePending,
	}

	out := e.advance(ctx, job, &rec)
	if out != nil {
		rec.Outcome = model.OutcomeFailure
		rec.Error = out.Error()
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "job failed",
				"job", job.Name, "table", job.Table, "state", rec.State, "error", out)
		}
	} else {
		rec.Outcome = model.OutcomeSuccess
	}

	rec.State = model.JobStateRecorded
	e.emitJobMetrics(job, rec, e.now().Sub(start), out)
	return rec
}

// advance walks the state machine and returns the first failure, nil on
// success. rec is updated in place as states are reached.
func (e *Engine) advance(ctx context.Context, job model.TableJob, rec *model.AuditRecord) error {
	// Pending → RuleEvaluated
	plan, err := BuildPlan(job, e.now())
	if err != nil {
		return err
	}
	rec.State = model.JobStateRuleEvaluated
	rec.Statement = plan.DeleteSQL

	matched, err := e.store.CountMatching(ctx, plan)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDelete, "count matching rows in %s", job.Table)
	}
	rec.MatchedCount = matched

	if job.CheckForeignKeys {
		e.inspectForeignKeys(ctx, job, rec)
	}

	// Zero matches: skip both dump and delete. The job still records a
	// Success outcome with all counts zero. The delete phase is considered
	// complete without issuing a statement.
	if matched == 0 {
		if e.logger != nil {
			e.logger.InfoContext(ctx, "no rows matched, skipping dump and delete",
				"job", job.Name, "table", job.Table)
		}
		if e.dryRun {
			rec.State = model.JobStateDeleteSkippedDryRun
		} else {
			rec.State = model.JobStateDeleted
		}
		return nil
	}

	// RuleEvaluated → DumpCompleted | DumpSkipped
	if err := e.dumpStep(ctx, job, plan, rec); err != nil {
		// Never delete rows that failed to dump.
		return err
	}

	// → Deleted | DeleteSkippedDryRun
	return e.deleteStep(ctx, job, plan, rec)
}

func (e *Engine) dumpStep(ctx context.Context, job model.TableJob, plan model.ExecutionPlan, rec *model.AuditRecord) error {
	if !job.Dump.Enabled {
		rec.State = model.JobStateDumpSkipped
		return nil
	}

	if e.dryRun && !e.dumpPreview {
		rec.State = model.JobStateDumpSkipped
		if e.logger != nil {
			e.logger.InfoContext(ctx, "[dry-run] would dump matching rows",
				"job", job.Name, "table", job.Table,
				"destination", string(job.Dump.Destination), "statement", plan.SelectSQL)
		}
		return nil
	}

	if e.sinks == nil {
		return apperrors.Internalf("job %q requests a dump but no sink resolver is configured", job.Name)
	}

	rows, err := e.store.FetchMatching(ctx, plan)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDump, "fetch rows for dump of %s", job.Table)
	}

	artifact, err := EncodeArtifact(job, rows, e.now())
	if err != nil {
		return err
	}

	sink, err := e.sinks.ForPolicy(job.Dump)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDump, "resolve dump sink for %s", job.Name)
	}

	location, err := sink.Store(ctx, artifact)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDump, "store dump for %s", job.Name)
	}

	rec.State = model.JobStateDumpCompleted
	rec.DumpedCount = artifact.RowCount
	rec.DumpLocation = location

	if e.logger != nil {
		e.logger.InfoContext(ctx, "dump stored",
			"job", job.Name, "table", job.Table, "rows", artifact.RowCount, "location", location)
	}
	return nil
}

func (e *Engine) deleteStep(ctx context.Context, job model.TableJob, plan model.ExecutionPlan, rec *model.AuditRecord) error {
	if e.dryRun {
		rec.State = model.JobStateDeleteSkippedDryRun
		if e.logger != nil {
			e.logger.InfoContext(ctx, "[dry-run] would execute delete",
				"job", job.Name, "table", job.Table,
				"statement", plan.DeleteSQL, "matched", rec.MatchedCount)
		}
		return nil
	}

	deleted, err := e.store.DeleteMatching(ctx, plan)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDelete, "delete rows from %s", job.Table)
	}
	if plan.Truncate {
		// TRUNCATE reports zero affected rows; the paired count is the
		// closest faithful figure.
		deleted = rec.MatchedCount
	}

	rec.State = model.JobStateDeleted
	rec.DeletedCount = deleted

	if e.logger != nil {
		e.logger.InfoContext(ctx, "rows deleted",
			"job", job.Name, "table", job.Table, "deleted", deleted)
	}
	return nil
}

// inspectForeignKeys surfaces constraints in the audit record. Failures here
// are logged and never abort the job.
func (e *Engine) inspectForeignKeys(ctx context.Context, job model.TableJob, rec *model.AuditRecord) {
	refs, err := e.store.ListForeignKeys(ctx, job.Schema, job.Table)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "foreign key inspection failed",
				"job", job.Name, "table", job.Table, "error", err)
		}
		return
	}
	rec.ForeignKeys = refs
	if len(refs) > 0 && e.logger != nil {
		e.logger.InfoContext(ctx, "foreign keys found",
			"job", job.Name, "table", job.Table, "count", len(refs))
	}
}

func (e *Engine) mode() model.RunMode {
	if e.dryRun {
		return model.RunModeDryRun
	}
	return model.RunModeLive
}

func (e *Engine) emitJobMetrics(job model.TableJob, rec model.AuditRecord, elapsed time.Duration, err error) {
	if e.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	} else if rec.MatchedCount == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"table":  job.Table,
		"mode":   string(rec.Mode),
		"result": result,
	}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	e.metrics.Count("sweep.job", 1, tags)
	if elapsed > 0 {
		e.metrics.Timing("sweep.job_duration", elapsed, metrics.CloneTags(tags))
	}
	if err == nil && rec.DeletedCount > 0 {
		e.metrics.Count("sweep.rows_deleted", rec.DeletedCount, metrics.CloneTags(tags))
	}
}

func (e *Engine) emitRunMetrics(summary model.RunSummary) {
	if e.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	if summary.Failed > 0 || summary.Skipped > 0 {
		result = metrics.ResultError
	} else if summary.Succeeded == 0 {
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"mode":   string(summary.Mode),
		"result": result,
	}
	e.metrics.Count("sweep.run", 1, tags)
	if summary.Elapsed > 0 {
		e.metrics.Timing("sweep.run_duration", summary.Elapsed, metrics.CloneTags(tags))
	}
	if summary.OK() {
		e.metrics.Gauge("sweep.last_success_epoch", float64(e.now().Unix()), nil)
	}
}

// orderJobs returns jobs sorted by their order hint, preserving declaration
// order between equal hints.
func orderJobs(jobs []model.TableJob) []model.TableJob {
	ordered := make([]model.TableJob, len(jobs))
	copy(ordered, jobs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}
