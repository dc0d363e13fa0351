package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/runlog"
)

// sqliteStore implements runlog.Store using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled
func OpenSQLite(ctx context.Context, path string) (runlog.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	map TEXT NOT NULL,
	algorithm TEXT NOT NULL,
	heuristic TEXT,
	found INTEGER NOT NULL,
	cost REAL,
	steps INTEGER NOT NULL,
	expanded INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_map ON runs(map);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Record inserts or replaces a run
func (s *sqliteStore) Record(ctx context.Context, r runlog.Run) error {
	if r.ID == "" {
		return fmt.Errorf("record run: empty id: %w", internalerr.ErrInvalidInput)
	}

	// SQLite has no infinity; a missing path stores NULL cost
	var cost sql.NullFloat64
	if r.Found && !math.IsInf(r.Cost, 0) {
		cost = sql.NullFloat64{Float64: r.Cost, Valid: true}
	}

	const stmt = `
INSERT INTO runs (id, map, algorithm, heuristic, found, cost, steps, expanded, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	map=excluded.map,
	algorithm=excluded.algorithm,
	heuristic=excluded.heuristic,
	found=excluded.found,
	cost=excluded.cost,
	steps=excluded.steps,
	expanded=excluded.expanded,
	created_at=excluded.created_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		r.ID, r.Map, r.Algorithm, r.Heuristic, r.Found, cost,
		r.Steps, r.Expanded, r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

const selectRun = `SELECT id, map, algorithm, heuristic, found, cost, steps, expanded, created_at FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (runlog.Run, error) {
	var (
		r         runlog.Run
		heuristic sql.NullString
		cost      sql.NullFloat64
		created   string
	)
	if err := row.Scan(&r.ID, &r.Map, &r.Algorithm, &heuristic, &r.Found, &cost, &r.Steps, &r.Expanded, &created); err != nil {
		return runlog.Run{}, err
	}
	r.Heuristic = heuristic.String
	r.Cost = math.Inf(1)
	if cost.Valid {
		r.Cost = cost.Float64
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return runlog.Run{}, fmt.Errorf("run %s: created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// Get returns a run by ID
func (s *sqliteStore) Get(ctx context.Context, id string) (runlog.Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return runlog.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// List returns runs newest first, optionally filtered by map
func (s *sqliteStore) List(ctx context.Context, mapName string, limit int) ([]runlog.Run, error) {
	if limit <= 0 {
		limit = runlog.DefaultListLimit
	}

	query := selectRun + ` WHERE (? = '' OR map = ?) ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, mapName, mapName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []runlog.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
