// Package store persists completed regression runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers "sqlite"

	apierrors "salesreg/internal/errors"
	"salesreg/internal/regression"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// DefaultListLimit caps List when no limit is given
const DefaultListLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  created_at  INTEGER NOT NULL,
  source      TEXT NOT NULL,
  seed        INTEGER NOT NULL,
  raw_rows    INTEGER NOT NULL,
  rows_used   INTEGER NOT NULL,
  mse         REAL NOT NULL,
  mae         REAL NOT NULL,
  rmse        REAL NOT NULL,
  r2          REAL NOT NULL,
  intercept   REAL NOT NULL,
  duration_ns INTEGER NOT NULL,
  report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// Run is a stored pipeline run
type Run struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Source    string             `json:"source"`
	Seed      int64              `json:"seed"`
	Report    *regression.Report `json:"report,omitempty"`
}

// Summary is the list view of a run without the full report
type Summary struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Source    string        `json:"source"`
	Seed      int64         `json:"seed"`
	RawRows   int           `json:"raw_rows"`
	Rows      int           `json:"rows"`
	MSE       float64       `json:"mse"`
	MAE       float64       `json:"mae"`
	RMSE      float64       `json:"rmse"`
	R2        float64       `json:"r2"`
	Intercept float64       `json:"intercept"`
	Duration  time.Duration `json:"duration_ns"`
}

// Store is a SQLite-backed run repository. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file::memory:"
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, apierrors.NewStorageError("create store directory", err)
			}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apierrors.NewStorageError("open store", err)
	}
	// sqlite allows a single writer; one connection also keeps :memory: alive
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apierrors.NewStorageError("ping store", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, apierrors.NewStorageError("create schema", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a completed run. The run ID must be unique.
func (s *Store) Save(ctx context.Context, run *Run) error {
	if run == nil || run.Report == nil || run.ID == "" {
		return apierrors.NewAppValidationError("run requires an id and a report")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(run.Report)
	if err != nil {
		return apierrors.NewStorageError("encode report", err).WithContext("run_id", run.ID)
	}

	r := run.Report
	_, err = s.db.ExecContext(ctx, `INSERT INTO runs
		(id, created_at, source, seed, raw_rows, rows_used, mse, mae, rmse, r2, intercept, duration_ns, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Source, run.Seed, r.RawRows, r.Rows,
		r.MSE, r.MAE, r.RMSE, r.R2, r.Intercept, int64(r.Duration), string(reportJSON))
	if err != nil {
		return apierrors.NewStorageError("insert run", err).WithContext("run_id", run.ID)
	}
	return nil
}

// Get loads a run with its full report
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, seed, report_json FROM runs WHERE id = ?`, id)

	var (
		run        Run
		createdAt  int64
		reportJSON string
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Source, &run.Seed, &reportJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NewNotFoundError("run").WithContext("run_id", id)
		}
		return nil, apierrors.NewStorageError("query run", err).WithContext("run_id", id)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()

	run.Report = &regression.Report{}
	if err := json.Unmarshal([]byte(reportJSON), run.Report); err != nil {
		return nil, apierrors.NewStorageError("decode report", err).WithContext("run_id", id)
	}
	return &run, nil
}

// List returns the most recent runs first
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, created_at, source, seed, raw_rows, rows_used, mse, mae, rmse, r2, intercept, duration_ns
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, apierrors.NewStorageError("list runs", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			sum       Summary
			createdAt int64
			duration  int64
		)
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Source, &sum.Seed, &sum.RawRows, &sum.Rows,
			&sum.MSE, &sum.MAE, &sum.RMSE, &sum.R2, &sum.Intercept, &duration); err != nil {
			return nil, apierrors.NewStorageError("scan run", err)
		}
		sum.CreatedAt = time.Unix(0, createdAt).UTC()
		sum.Duration = time.Duration(duration)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, apierrors.NewStorageError("list runs", err)
	}
	return summaries, nil
}

// Count returns the number of stored runs
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, apierrors.NewStorageError("count runs", err)
	}
	return n, nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
