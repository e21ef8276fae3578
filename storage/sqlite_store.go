package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"hrsync/worklog"
)

const (
	StatusSubmitted = "submitted"
	StatusDryRun    = "dry_run"
	StatusFailed    = "failed"
)

var ErrRunNotFound = errors.New("import run not found")

// Run summarises one pipeline execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	SourceFile string
	Rows       int
	Status     string
	StatusCode int
	ErrorKind  string
	Error      string
}

// RunEntry is one working time recorded for a run.
type RunEntry struct {
	RunID           string
	RowNumber       int
	PersonnelNumber string
	ProjectNumber   int64
	Begin           time.Time
	End             time.Time
}

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS import_runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	source_file TEXT NOT NULL,
	row_count INTEGER NOT NULL CHECK(row_count >= 0),
	status TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	error_kind TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS import_entries (
	run_id TEXT NOT NULL REFERENCES import_runs(id) ON DELETE CASCADE,
	source_row INTEGER NOT NULL,
	personnel_number TEXT NOT NULL,
	project_number INTEGER NOT NULL,
	begin_utc TEXT NOT NULL,
	end_utc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_import_entries_run ON import_entries(run_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordRun stores run together with its entries and returns the run ID.
// A new UUID is assigned when run.ID is empty.
func (s *SQLiteStore) RecordRun(run Run, entries []worklog.ResolvedEntry) (string, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	const insertRun = `
INSERT INTO import_runs (id, started_at, source_file, row_count, status, status_code, error_kind, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err := tx.Exec(insertRun,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.SourceFile,
		run.Rows,
		run.Status,
		run.StatusCode,
		run.ErrorKind,
		run.Error,
	); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert import run: %w", err)
	}

	if len(entries) > 0 {
		stmt, err := tx.Prepare(`
INSERT INTO import_entries (run_id, source_row, personnel_number, project_number, begin_utc, end_utc)
VALUES (?, ?, ?, ?, ?, ?);`)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("prepare entry insert: %w", err)
		}
		defer stmt.Close()

		for _, entry := range entries {
			if _, err := stmt.Exec(
				run.ID,
				entry.RowNumber,
				entry.PersonNumber,
				entry.ProjectNumber,
				entry.Begin.UTC().Format(time.RFC3339),
				entry.End.UTC().Format(time.RFC3339),
			); err != nil {
				_ = tx.Rollback()
				return "", fmt.Errorf("insert import entry row %d: %w", entry.RowNumber, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	query := `
SELECT id, started_at, source_file, row_count, status, status_code, error_kind, error
FROM import_runs
ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) GetRun(id string) (Run, error) {
	row := s.db.QueryRow(`
SELECT id, started_at, source_file, row_count, status, status_code, error_kind, error
FROM import_runs
WHERE id = ?;`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// ListRunEntries returns the entries of one run in file order.
func (s *SQLiteStore) ListRunEntries(runID string) ([]RunEntry, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
SELECT run_id, source_row, personnel_number, project_number, begin_utc, end_utc
FROM import_entries
WHERE run_id = ?
ORDER BY source_row ASC, rowid ASC;`, runID)
	if err != nil {
		return nil, fmt.Errorf("query import entries: %w", err)
	}
	defer rows.Close()

	entries := make([]RunEntry, 0, 32)
	for rows.Next() {
		var (
			entry RunEntry
			begin string
			end   string
		)
		if err := rows.Scan(&entry.RunID, &entry.RowNumber, &entry.PersonnelNumber, &entry.ProjectNumber, &begin, &end); err != nil {
			return nil, fmt.Errorf("scan import entry: %w", err)
		}
		if entry.Begin, err = time.Parse(time.RFC3339, begin); err != nil {
			return nil, fmt.Errorf("parse entry begin %q: %w", begin, err)
		}
		if entry.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("parse entry end %q: %w", end, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		startedAt string
	)
	if err := row.Scan(&run.ID, &startedAt, &run.SourceFile, &run.Rows, &run.Status, &run.StatusCode, &run.ErrorKind, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan import run: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at %q: %w", startedAt, err)
	}
	run.StartedAt = parsed
	return run, nil
}
