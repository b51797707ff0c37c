// Package storage provides SQLite-based persistence for run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished play session.
type RunRecord struct {
	ID         int64
	RunID      string // UUID, assigned on save when empty
	Project    string // Project name, "" for ad-hoc stages
	Outcome    string // "completed" or "cancelled"
	Actors     int
	Steps      int
	Blocks     int
	Collisions int
	Duration   time.Duration
	Snapshot   []byte // Final stage as project JSON; only loaded by RunByID
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			project TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			actors INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			blocks INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			snapshot BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. The snapshot is stored compressed.
// Returns the run with its assigned IDs.
func (s *Store) SaveRun(r RunRecord) (RunRecord, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	var blob []byte
	if len(r.Snapshot) > 0 {
		var err error
		if blob, err = compress(r.Snapshot); err != nil {
			return r, err
		}
	}

	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, project, outcome, actors, steps, blocks, collisions, duration_ms, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.Project,
		r.Outcome,
		r.Actors,
		r.Steps,
		r.Blocks,
		r.Collisions,
		r.Duration.Milliseconds(),
		blob,
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save run: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return r, nil
}

const runColumns = `id, run_id, project, outcome, actors, steps, blocks, collisions, duration_ms, created_at`

// scanRun reads the columns listed in runColumns, plus any extra targets.
func scanRun(row interface{ Scan(...any) error }, extra ...any) (RunRecord, error) {
	var r RunRecord
	var durationMs int64
	var createdAt any

	dest := []any{
		&r.ID, &r.RunID, &r.Project, &r.Outcome,
		&r.Actors, &r.Steps, &r.Blocks, &r.Collisions,
		&durationMs, &createdAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return r, err
	}

	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// RunByID retrieves a run by its run ID, including the snapshot.
// Returns nil if there is no such run.
func (s *Store) RunByID(runID string) (*RunRecord, error) {
	var blob []byte
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+`, snapshot FROM runs WHERE run_id = ?`,
		runID,
	), &blob)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	if len(blob) > 0 {
		r.Snapshot, err = decompress(blob)
		if err != nil {
			return nil, fmt.Errorf("storage: run %s: %w", runID, err)
		}
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs, newest first, without
// snapshots. An empty project matches every run.
func (s *Store) RecentRuns(project string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR project = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		project, project, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of a project. An empty project deletes
// every run.
func (s *Store) ClearRuns(project string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR project = ?", project, project)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// ProjectStats contains aggregated statistics for a project.
type ProjectStats struct {
	Project    string
	Runs       int
	Completed  int
	Collisions int
	AvgSteps   float64
	LastRun    time.Time
}

// AllProjectStats retrieves statistics for every project with runs,
// keyed by project name.
func (s *Store) AllProjectStats() (map[string]*ProjectStats, error) {
	rows, err := s.db.Query(
		`SELECT project, COUNT(*),
		        SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END),
		        SUM(collisions), AVG(steps), MAX(created_at)
		 FROM runs
		 GROUP BY project`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get project stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ProjectStats)
	for rows.Next() {
		var ps ProjectStats
		var lastRun any
		if err := rows.Scan(&ps.Project, &ps.Runs, &ps.Completed, &ps.Collisions, &ps.AvgSteps, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastRun = parseTime(lastRun)
		stats[ps.Project] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
