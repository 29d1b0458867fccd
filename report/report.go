// SPDX-License-Identifier: EPL-2.0

// Package report records the outcome of extraction runs in SQLite so failed
// clips can be listed after the fact.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/ik5/melfeat/dataset"
)

// File outcome values stored in files.status.
const (
	StatusOK       = "ok"
	StatusTooShort = "too_short"
	StatusFailed   = "failed"
)

// Run is one extraction run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Root       string
	Folders    []string
	Bands      int
	Frames     int
	SampleRate int
	Clips      int
	Failed     int
	Samples    int
	Output     string
	Err        string // run-level error, empty on success
}

// Failure is a clip that could not be processed.
type Failure struct {
	Folder string
	Path   string
	Label  int
	Error  string
}

type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the report database at dsn.
func Open(dsn string) (*DB, error) {
	dbPath := dsn
	if idx := strings.Index(dsn, "?"); idx != -1 {
		dbPath = dsn[:idx]
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating report directory: %w", err)
		}
	}

	if !strings.Contains(dsn, "_busy_timeout") {
		if strings.Contains(dsn, "?") {
			dsn += "&_busy_timeout=5000"
		} else {
			dsn += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report tables: %w", err)
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	createRuns := `
    CREATE TABLE IF NOT EXISTS runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        started_at DATETIME NOT NULL,
        finished_at DATETIME NOT NULL,
        root TEXT NOT NULL,
        folders TEXT NOT NULL,
        bands INTEGER NOT NULL,
        frames INTEGER NOT NULL,
        sample_rate INTEGER NOT NULL,
        clips INTEGER NOT NULL DEFAULT 0,
        failed INTEGER NOT NULL DEFAULT 0,
        samples INTEGER NOT NULL DEFAULT 0,
        output TEXT,
        error TEXT
    );
    `

	createFiles := `
    CREATE TABLE IF NOT EXISTS files (
        run_id INTEGER NOT NULL REFERENCES runs(id),
        folder TEXT NOT NULL,
        path TEXT NOT NULL,
        label INTEGER NOT NULL,
        windows INTEGER NOT NULL,
        status TEXT NOT NULL,
        error TEXT,
        PRIMARY KEY (run_id, path)
    );
    CREATE INDEX IF NOT EXISTS idx_files_status ON files(run_id, status);
    `

	if _, err := db.Exec(createRuns); err != nil {
		return fmt.Errorf("runs table: %w", err)
	}
	if _, err := db.Exec(createFiles); err != nil {
		return fmt.Errorf("files table: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func status(res dataset.FileResult) string {
	switch {
	case res.Failed():
		return StatusFailed
	case res.Windows == 0:
		return StatusTooShort
	}

	return StatusOK
}

// Record stores run and the per-file results in one transaction and
// returns the new run id. Results with an empty path (never processed) are
// skipped.
func (d *DB) Record(ctx context.Context, run Run, results []dataset.FileResult) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO runs (started_at, finished_at, root, folders, bands, frames, sample_rate,
                          clips, failed, samples, output, error)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Root, strings.Join(run.Folders, ","),
		run.Bands, run.Frames, run.SampleRate, run.Clips, run.Failed, run.Samples,
		nullable(run.Output), nullable(run.Err),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO files (run_id, folder, path, label, windows, status, error)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if r.Clip.Path == "" {
			continue
		}

		var msg sql.NullString
		if r.Err != nil {
			msg = sql.NullString{String: r.Err.Error(), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, runID, r.Clip.Folder, r.Clip.Path, r.Label, r.Windows, status(r), msg); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", r.Clip.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	return runID, nil
}

// Failures lists the failed clips of a run in path order.
func (d *DB) Failures(ctx context.Context, runID int64) ([]Failure, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT folder, path, label, COALESCE(error, '')
        FROM files
        WHERE run_id = ? AND status = ?
        ORDER BY path`, runID, StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Folder, &f.Path, &f.Label, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

// StatusCounts returns the number of files per status for a run.
func (d *DB) StatusCounts(ctx context.Context, runID int64) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT status, COUNT(*) FROM files WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			s string
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[s] = n
	}

	return counts, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
