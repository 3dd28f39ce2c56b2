package data

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// classifyDBError annotates well-known Postgres failure classes so the
// audit record carries an actionable message instead of a bare SQLSTATE.
func classifyDBError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("foreign key constraint %q prevents deletion: %w", pgErr.ConstraintName, err)
	case pgerrcode.UndefinedTable:
		return fmt.Errorf("table does not exist: %w", err)
	case pgerrcode.UndefinedColumn:
		return fmt.Errorf("column referenced by the retention rule does not exist: %w", err)
	case pgerrcode.InsufficientPrivilege:
		return fmt.Errorf("insufficient privileges: %w", err)
	default:
		return err
	}
}
