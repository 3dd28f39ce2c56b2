package core

import (
	"context"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// This file contains the port definitions between the execution engine and
// its collaborators. The engine depends on these interfaces, not on the
// concrete database, filesystem, or S3 implementations.

// TableStore defines the row-level database operations the engine needs to
// execute a plan. All statements come from the plan itself; implementations
// never synthesize filter predicates.
type TableStore interface {
	// CountMatching runs the plan's COUNT statement.
	CountMatching(ctx context.Context, plan model.ExecutionPlan) (int64, error)
	// FetchMatching materializes the plan's SELECT for dumping.
	FetchMatching(ctx context.Context, plan model.ExecutionPlan) (*model.RowSet, error)
	// DeleteMatching runs the plan's DELETE (or TRUNCATE) statement and
	// returns the number of affected rows as reported by the database.
	DeleteMatching(ctx context.Context, plan model.ExecutionPlan) (int64, error)
	// ListForeignKeys returns foreign key constraints declared on the table.
	ListForeignKeys(ctx context.Context, schema, table string) ([]model.ForeignKeyRef, error)
}

// StorageSink persists one dump artifact and returns its final location
// (a filesystem path or an object storage URI). The artifact's bytes must be
// fully written before Store returns successfully.
type StorageSink interface {
	Store(ctx context.Context, artifact model.DumpArtifact) (string, error)
}

// SinkResolver selects a StorageSink for a job's dump policy.
type SinkResolver interface {
	ForPolicy(policy model.DumpPolicy) (StorageSink, error)
}

// AuditRecorder accumulates append-only audit records. Record never fails
// the run; sink failures surface through Flush and a failure counter.
type AuditRecorder interface {
	Record(rec model.AuditRecord)
	// Flush writes all buffered records durably to the configured sink.
	Flush() error
}
