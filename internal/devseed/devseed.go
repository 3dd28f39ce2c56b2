// Package devseed creates and populates the demo tables referenced by the
// example sweep document, so a local run has expired rows to dump and delete.
// It is intended for development databases only and is idempotent.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type seedTable struct {
	name   string
	ddl    string
	insert string
	// ages, in days, of the seeded rows. Rows older than the example
	// document's retention windows will match a sweep.
	ageDays []int
}

var seedTables = []seedTable{
	{
		name: "sessions",
		ddl: `CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			token TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		insert: `INSERT INTO sessions (user_id, token, created_at)
			VALUES ($1, md5(random()::text), now() - make_interval(days => $2))`,
		ageDays: []int{1, 7, 45, 60, 90},
	},
	{
		name: "request_logs",
		ddl: `CREATE TABLE IF NOT EXISTS request_logs (
			id BIGSERIAL PRIMARY KEY,
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		insert: `INSERT INTO request_logs (level, message, created_at)
			VALUES (CASE WHEN $1 % 2 = 0 THEN 'debug' ELSE 'info' END, 'seeded log line', now() - make_interval(days => $2))`,
		ageDays: []int{1, 3, 10, 14, 30},
	},
	{
		name: "import_staging",
		ddl: `CREATE TABLE IF NOT EXISTS import_staging (
			id BIGSERIAL PRIMARY KEY,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		insert: `INSERT INTO import_staging (payload, created_at)
			VALUES (jsonb_build_object('seed', true, 'batch', $1::bigint), now() - make_interval(days => $2))`,
		ageDays: []int{0, 1, 2},
	},
}

// Run creates the demo tables if missing and inserts one row per configured
// age. Existing rows are left alone; rerunning adds another batch.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	for _, tbl := range seedTables {
		if _, err := db.ExecContext(ctx, tbl.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", tbl.name, err)
		}

		for i, days := range tbl.ageDays {
			if _, err := db.ExecContext(ctx, tbl.insert, int64(i+1), days); err != nil {
				return fmt.Errorf("seed %s row (age %dd): %w", tbl.name, days, err)
			}
		}

		logger.InfoContext(ctx, "seeded table",
			"table", tbl.name, "rows", len(tbl.ageDays))
	}
	return nil
}
