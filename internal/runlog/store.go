package runlog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store is the sqlite-backed run journal. It records one row per batch
// invocation plus the per-row outcomes, so past runs stay inspectable after
// the dataset itself has been overwritten.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

func (s *Store) BeginRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, dataset_path, started_at) VALUES (?, ?, ?)`,
		run.ID, run.DatasetPath, run.StartedAt)
	return err
}

func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET
			finished_at = ?,
			processed = ?,
			skipped = ?,
			partially_updated = ?,
			fully_updated = ?,
			errored = ?,
			error = ?
		 WHERE id = ?`,
		run.FinishedAt,
		run.Processed,
		run.Skipped,
		run.PartiallyUpdated,
		run.FullyUpdated,
		run.Errored,
		run.Error,
		run.ID)
	return err
}

func (s *Store) RecordRow(ctx context.Context, outcome RowOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO row_outcomes (run_id, url, outcome, error, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, url) DO UPDATE SET
			outcome=excluded.outcome,
			error=excluded.error,
			updated_at=excluded.updated_at`,
		outcome.RunID, outcome.URL, outcome.Outcome, outcome.Error, outcome.UpdatedAt)
	return err
}

func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset_path, started_at, finished_at,
			processed, skipped, partially_updated, fully_updated, errored, error
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]Run, 0, limit)
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(
			&run.ID,
			&run.DatasetPath,
			&run.StartedAt,
			&finished,
			&run.Processed,
			&run.Skipped,
			&run.PartiallyUpdated,
			&run.FullyUpdated,
			&run.Errored,
			&run.Error,
		); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		ret = append(ret, run)
	}
	return ret, rows.Err()
}

func (s *Store) RowsForRun(ctx context.Context, runID string) ([]RowOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, url, outcome, error, updated_at
		 FROM row_outcomes
		 WHERE run_id = ?
		 ORDER BY updated_at ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]RowOutcome, 0)
	for rows.Next() {
		var outcome RowOutcome
		if err := rows.Scan(
			&outcome.RunID,
			&outcome.URL,
			&outcome.Outcome,
			&outcome.Error,
			&outcome.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ret = append(ret, outcome)
	}
	return ret, rows.Err()
}
