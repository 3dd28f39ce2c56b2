package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dbsweep/dbsweep/internal/core"
	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// RepoConfig holds configuration options for the table repository.
type RepoConfig struct {
	Logger *slog.Logger
}

// TableRepo executes prepared execution plans against the database. It never
// builds filter predicates itself; statements and bind arguments come from
// the plan.
type TableRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

var _ core.TableStore = (*TableRepo)(nil)

// NewTableRepo creates a new TableRepo instance with the given database
// connection and configuration.
func NewTableRepo(db *sql.DB, cfg RepoConfig) *TableRepo {
	return &TableRepo{
		DB:     db,
		logger: cfg.Logger,
	}
}

// CountMatching runs the plan's COUNT statement.
func (r *TableRepo) CountMatching(ctx context.Context, plan model.ExecutionPlan) (int64, error) {
	var count int64
	if err := r.DB.QueryRowContext(ctx, plan.CountSQL, plan.Args...).Scan(&count); err != nil {
		return 0, classifyDBError(fmt.Errorf("count matching rows: %w", err))
	}
	return count, nil
}

// FetchMatching materializes every row the plan's SELECT returns. Rows are
// held in memory for the dump encoder; the matched set of a retention job is
// expected to be bounded by the retention window.
func (r *TableRepo) FetchMatching(ctx context.Context, plan model.ExecutionPlan) (*model.RowSet, error) {
	rows, err := r.DB.QueryContext(ctx, plan.SelectSQL, plan.Args...)
	if err != nil {
		return nil, classifyDBError(fmt.Errorf("select matching rows: %w", err))
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	rs := &model.RowSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan matched row: %w", err)
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyDBError(fmt.Errorf("iterate matched rows: %w", err))
	}

	return rs, nil
}

// DeleteMatching runs the plan's DELETE (or TRUNCATE) statement and returns
// the affected row count as the database reports it.
func (r *TableRepo) DeleteMatching(ctx context.Context, plan model.ExecutionPlan) (int64, error) {
	res, err := r.DB.ExecContext(ctx, plan.DeleteSQL, plan.Args...)
	if err != nil {
		return 0, classifyDBError(fmt.Errorf("execute delete: %w", err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if r.logger != nil {
		r.logger.Debug("delete executed", "statement", plan.DeleteSQL, "affected", affected)
	}
	return affected, nil
}

// foreignKeyQuery lists foreign key constraints declared on a table,
// mirroring the information_schema inspection the maintenance tooling has
// always performed before deletions.
const foreignKeyQuery = `
SELECT
  tc.constraint_name,
  tc.table_name,
  kcu.column_name,
  ccu.table_name  AS referenced_table,
  ccu.column_name AS referenced_column
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
 AND tc.table_schema = ccu.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND tc.table_schema = $1
  AND tc.table_name = $2
ORDER BY tc.constraint_name, kcu.column_name
`

// ListForeignKeys returns foreign key constraints declared on the table.
// An empty schema defaults to public.
func (r *TableRepo) ListForeignKeys(ctx context.Context, schema, table string) ([]model.ForeignKeyRef, error) {
	if schema == "" {
		schema = "public"
	}

	rows, err := r.DB.QueryContext(ctx, foreignKeyQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys for %s.%s: %w", schema, table, err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var refs []model.ForeignKeyRef
	for rows.Next() {
		var ref model.ForeignKeyRef
		if err := rows.Scan(&ref.Constraint, &ref.Table, &ref.Column,
			&ref.ReferencedTable, &ref.ReferencedColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	return refs, nil
}
