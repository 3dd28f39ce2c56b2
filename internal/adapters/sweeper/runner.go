// Package sweeper provides the adapter that wires and runs one sweep pass.
package sweeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dbsweep/dbsweep/config"
	"github.com/dbsweep/dbsweep/internal/audit"
	"github.com/dbsweep/dbsweep/internal/core"
	"github.com/dbsweep/dbsweep/internal/data"
	"github.com/dbsweep/dbsweep/internal/domain/model"
	"github.com/dbsweep/dbsweep/internal/observability/statsd"
	"github.com/dbsweep/dbsweep/internal/service"
	"github.com/dbsweep/dbsweep/internal/storage"
)

// Runner constructs the sweep engine with its collaborators and runs one
// pass over the configured jobs.
type Runner struct {
	engine *service.Engine
	audit  core.AuditRecorder
	jobs   []model.TableJob
	logger *slog.Logger

	// auditCloser releases a file-backed audit sink the runner opened
	// itself; nil when the recorder was injected.
	auditCloser io.Closer
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.AppConfig
	Jobs   []model.TableJob
	Logger *slog.Logger

	DryRun      bool
	DumpPreview bool

	// Optional dependency injection for testing/decoupling
	Store    core.TableStore
	Sinks    core.SinkResolver
	Audit    core.AuditRecorder
	S3Client storage.S3API
	Metrics  statsd.Sink
}

// NewRunner creates a new sweep runner with the given options.
func NewRunner(ctx context.Context, opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store = data.NewTableRepo(opts.DB, data.RepoConfig{Logger: opts.Logger})
	}

	recorder := opts.Audit
	var auditCloser io.Closer
	if recorder == nil {
		logger, err := audit.NewLogger(audit.Config{
			Sink:   opts.Config.Audit.Sink,
			Logger: opts.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open audit sink: %w", err)
		}
		recorder = logger
		auditCloser = logger
	}

	sinks := opts.Sinks
	if sinks == nil {
		resolver, err := buildSinkResolver(ctx, opts)
		if err != nil {
			return nil, err
		}
		sinks = resolver
	}

	engine, err := service.NewEngine(service.EngineOptions{
		Store:       store,
		Sinks:       sinks,
		Audit:       recorder,
		Logger:      opts.Logger,
		Metrics:     opts.Metrics,
		RunID:       uuid.NewString(),
		DryRun:      opts.DryRun,
		DumpPreview: opts.DumpPreview,
	})
	if err != nil {
		return nil, fmt.Errorf("wire sweep engine: %w", err)
	}

	return &Runner{
		engine:      engine,
		audit:       recorder,
		jobs:        opts.Jobs,
		logger:      opts.Logger,
		auditCloser: auditCloser,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && opts.Store == nil {
		return errors.New("database connection is required")
	}
	if len(opts.Jobs) == 0 {
		return errors.New("at least one table job is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// buildSinkResolver constructs the dump sink resolver. The S3 client is
// created only when some job actually dumps to S3, so local-only setups do
// not need AWS credentials.
func buildSinkResolver(ctx context.Context, opts RunnerOptions) (*storage.Resolver, error) {
	resolver := &storage.Resolver{
		S3Client:      opts.S3Client,
		DefaultBucket: opts.Config.Storage.Bucket,
		Logger:        opts.Logger,
	}

	if resolver.S3Client == nil && anyS3Dump(opts.Jobs) {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS configuration: %w", err)
		}
		resolver.S3Client = s3.NewFromConfig(awsCfg)
	}

	return resolver, nil
}

func anyS3Dump(jobs []model.TableJob) bool {
	for _, job := range jobs {
		if job.Dump.Enabled && job.Dump.Destination == model.DumpDestinationS3 {
			return true
		}
	}
	return false
}

// Run executes one sweep pass and flushes the audit log before returning.
// Audit flush failures are reported but never change the run outcome.
func (r *Runner) Run(ctx context.Context) model.RunSummary {
	r.logger.InfoContext(ctx, "starting sweep run", "jobs", len(r.jobs))

	summary := r.engine.Run(ctx, r.jobs)

	if err := r.audit.Flush(); err != nil {
		r.logger.ErrorContext(ctx, "audit flush failed", "error", err)
	}

	return summary
}

// Close releases the audit sink if the runner opened it. Injected recorders
// stay under their owner's control.
func (r *Runner) Close() error {
	if r.auditCloser == nil {
		return nil
	}
	return r.auditCloser.Close()
}
