package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ctfhacker/cargoci/internal/model"
)

// schema is applied on every open. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; the schema is small enough that versioned migrations would
// be overkill.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	workspace   TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	exit_code   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	command     TEXT NOT NULL,
	status      TEXT NOT NULL,
	exit_code   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store is a SQLite-backed record of past runs.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database location under the user cache
// directory, e.g. ~/.cache/cargoci/history.db on Linux.
func DefaultPath() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache directory: %w", err)
	}
	return filepath.Join(cache, "cargoci", "history.db"), nil
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, model.WrapCLIError(model.ExitHistoryError, "creating history directory", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, model.WrapCLIError(model.ExitHistoryError, "opening history database", err)
	}

	// SQLite works best with a single connection for writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, model.WrapCLIError(model.ExitHistoryError, "applying history schema", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a completed run and its steps in one transaction.
func (s *Store) Record(ctx context.Context, run *model.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, workspace, started_at, duration_ms, exit_code)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.WorkspacePath,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.ExitCode,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, step := range run.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO steps (run_id, position, kind, command, status, exit_code, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			i,
			step.Kind.String(),
			step.Command(),
			step.Status.String(),
			step.ExitCode,
			step.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("inserting step %s: %w", step.Kind, err)
		}
	}

	return tx.Commit()
}

// Recent returns the most recent runs, newest first, with their steps
// populated. limit caps the number of runs returned; a non-positive
// limit returns nothing.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace, started_at, duration_ms, exit_code
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var (
			run        model.Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &run.WorkspacePath, &startedAt, &durationMS, &run.ExitCode); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		runs[i].Steps, err = s.stepsFor(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// stepsFor loads the step rows of one run, in pipeline order.
func (s *Store) stepsFor(ctx context.Context, runID string) ([]model.StepResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, command, status, exit_code, duration_ms
		 FROM steps WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []model.StepResult
	for rows.Next() {
		var (
			step       model.StepResult
			kind       string
			command    string
			status     string
			durationMS int64
		)
		if err := rows.Scan(&kind, &command, &status, &step.ExitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}

		step.Kind, err = model.ParseStepKind(kind)
		if err != nil {
			return nil, err
		}
		step.Status, err = model.ParseStepStatus(status)
		if err != nil {
			return nil, err
		}
		step.Argv = splitCommand(command)
		step.Duration = time.Duration(durationMS) * time.Millisecond

		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// splitCommand reverses StepResult.Command. The check command lines never
// contain quoted arguments, so whitespace splitting is exact.
func splitCommand(s string) []string {
	return strings.Fields(s)
}
