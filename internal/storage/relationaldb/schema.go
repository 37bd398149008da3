package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchemaVersion is the history schema written by this build. Bump it and
// extend the backends' statement lists when tables change.
const SchemaVersion = 1

// ErrSchemaTooNew is returned when the database was written by a newer
// build.
var ErrSchemaTooNew = errors.New("history schema is newer than this build")

// Migrate runs the backend's idempotent schema statements and stamps
// SchemaVersion, all in one SQL transaction.
func Migrate(ctx context.Context, db *sql.DB, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var found int
	err = tx.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&found)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		found = 0
	case err != nil:
		return fmt.Errorf("read schema_version: %w", err)
	}
	if found > SchemaVersion {
		return fmt.Errorf("%w: database has %d, build supports %d", ErrSchemaTooNew, found, SchemaVersion)
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	stamp := fmt.Sprintf(`UPDATE schema_version SET version = %d`, SchemaVersion)
	if found == 0 {
		stamp = fmt.Sprintf(`INSERT INTO schema_version (version) VALUES (%d)`, SchemaVersion)
	}
	if _, err := tx.ExecContext(ctx, stamp); err != nil {
		return fmt.Errorf("stamp schema_version: %w", err)
	}
	return tx.Commit()
}
