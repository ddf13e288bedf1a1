package migration

import (
	"context"

	"dataportal/internal/errors"
	"dataportal/internal/logging"

	"github.com/jmoiron/sqlx"
)

var logger = logging.Default.With("migration")

// step is one schema change. Statements use types and syntax accepted by
// both PostgreSQL and SQLite.
type step struct {
	version    string
	statements []string
}

var steps = []step{
	{
		version: "0001_create_datasets",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS datasets (
				dataset_name TEXT PRIMARY KEY,
				sex TEXT NOT NULL DEFAULT '',
				methylation_cell_count BIGINT,
				snatac_cell_count BIGINT,
				aba_regions_acronym TEXT NOT NULL DEFAULT '',
				slice TEXT NOT NULL DEFAULT '',
				date_added TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				aba_regions_descriptive TEXT NOT NULL DEFAULT '',
				snatac_datasets TEXT NOT NULL DEFAULT ''
			)`,
		},
	},
	{
		version: "0002_index_date_added",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_datasets_date_added ON datasets (date_added)`,
		},
	},
}

// Runner applies schema migrations in order, once each
type Runner struct{}

// NewRunner creates a new migration runner
func NewRunner() *Runner {
	return &Runner{}
}

// Version returns the latest schema version known to the runner
func (r *Runner) Version() string {
	return steps[len(steps)-1].version
}

// Run executes all pending migrations
func (r *Runner) Run(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY
		)`); err != nil {
		return errors.DatabaseError("failed to create schema_migrations table", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return errors.DatabaseError("failed to read applied migrations", err)
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, s := range steps {
		if done[s.version] {
			continue
		}
		if err := r.apply(ctx, db, s); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", s.version)
		}
		logger.Info("applied migration %s", s.version)
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, db *sqlx.DB, s step) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("begin migration", err)
	}
	defer tx.Rollback()

	for _, stmt := range s.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.DatabaseError("execute migration statement", err)
		}
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), s.version); err != nil {
		return errors.DatabaseError("record migration", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("commit migration", err)
	}
	return nil
}
