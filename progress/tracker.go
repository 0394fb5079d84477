// Package progress journals batch runs in a local SQLite file so an
// interrupted run can be resumed without re-processing finished cases.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const trackerSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ended_at   DATETIME,
	options    TEXT,
	attempted  INTEGER NOT NULL DEFAULT 0,
	succeeded  INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_files (
	run_id      TEXT NOT NULL REFERENCES runs(run_id),
	source_file TEXT NOT NULL,
	status      TEXT NOT NULL,
	case_id     INTEGER,
	error       TEXT,
	finished_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (run_id, source_file)
);

CREATE INDEX IF NOT EXISTS run_files_status_idx ON run_files (source_file, status);
`

// Outcome is the terminal state of one file within a run.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Tracker records run and per-file outcomes.
type Tracker struct {
	db    *sql.DB
	runID string
}

// Open opens (or creates) the tracker database at the given path.
func Open(path string) (*Tracker, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating tracker directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening tracker database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging tracker database: %w", err)
	}
	if _, err := db.Exec(trackerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tracker schema: %w", err)
	}

	return &Tracker{db: db}, nil
}

// Close closes the tracker database.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// StartRun opens a new run with a fresh id. The options string is stored
// verbatim for later inspection.
func (t *Tracker) StartRun(ctx context.Context, options string) (string, error) {
	runID := uuid.NewString()
	_, err := t.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, options) VALUES (?, ?)", runID, options)
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	t.runID = runID
	return runID, nil
}

// RecordOutcome stores the terminal state of one source file in the current
// run and bumps the matching run counter.
func (t *Tracker) RecordOutcome(ctx context.Context, sourceFile, outcome string, caseID int64, procErr error) error {
	if t.runID == "" {
		return fmt.Errorf("no active run")
	}

	var errText sql.NullString
	if procErr != nil {
		errText = sql.NullString{String: procErr.Error(), Valid: true}
	}
	var id sql.NullInt64
	if caseID > 0 {
		id = sql.NullInt64{Int64: caseID, Valid: true}
	}

	_, err := t.db.ExecContext(ctx, `
		INSERT INTO run_files (run_id, source_file, status, case_id, error)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (run_id, source_file) DO UPDATE SET
			status = excluded.status,
			case_id = excluded.case_id,
			error = excluded.error,
			finished_at = CURRENT_TIMESTAMP`,
		t.runID, sourceFile, outcome, id, errText)
	if err != nil {
		return fmt.Errorf("recording outcome for %s: %w", sourceFile, err)
	}

	column := map[string]string{
		OutcomeSucceeded: "succeeded",
		OutcomeSkipped:   "skipped",
		OutcomeFailed:    "failed",
	}[outcome]
	if column == "" {
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	_, err = t.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE runs SET attempted = attempted + 1, %s = %s + 1 WHERE run_id = ?",
		column, column), t.runID)
	if err != nil {
		return fmt.Errorf("updating run counters: %w", err)
	}
	return nil
}

// FinishRun stamps the end time on the current run.
func (t *Tracker) FinishRun(ctx context.Context) error {
	if t.runID == "" {
		return nil
	}
	_, err := t.db.ExecContext(ctx,
		"UPDATE runs SET ended_at = ? WHERE run_id = ?",
		time.Now().UTC(), t.runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// SucceededFiles returns the set of source files that succeeded in any prior
// run, used to skip work when resuming.
func (t *Tracker) SucceededFiles(ctx context.Context) (map[string]bool, error) {
	rows, err := t.db.QueryContext(ctx,
		"SELECT DISTINCT source_file FROM run_files WHERE status = ?", OutcomeSucceeded)
	if err != nil {
		return nil, fmt.Errorf("loading succeeded files: %w", err)
	}
	defer rows.Close()

	files := make(map[string]bool)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scanning succeeded file: %w", err)
		}
		files[f] = true
	}
	return files, rows.Err()
}
