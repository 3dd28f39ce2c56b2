package data

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "foreign key violation",
			err: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "fk_sessions_user",
			},
			want: `foreign key constraint "fk_sessions_user" prevents deletion`,
		},
		{
			name: "undefined table",
			err:  &pgconn.PgError{Code: pgerrcode.UndefinedTable},
			want: "table does not exist",
		},
		{
			name: "undefined column",
			err:  &pgconn.PgError{Code: pgerrcode.UndefinedColumn},
			want: "column referenced by the retention rule does not exist",
		},
		{
			name: "insufficient privilege",
			err:  &pgconn.PgError{Code: pgerrcode.InsufficientPrivilege},
			want: "insufficient privileges",
		},
		{
			name: "wrapped pg error",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.UndefinedTable}),
			want: "table does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDBError(tt.err)
			assert.Contains(t, got.Error(), tt.want)
			// Original error stays reachable for errors.As callers.
			var pgErr *pgconn.PgError
			assert.True(t, errors.As(got, &pgErr))
		})
	}
}

func TestClassifyDBError_Passthrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Same(t, plain, classifyDBError(plain))

	other := &pgconn.PgError{Code: pgerrcode.SyntaxError, Message: "syntax error"}
	assert.Same(t, error(other), classifyDBError(other))
}
