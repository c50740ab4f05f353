// Package ledger persists import runs in a local SQLite database so repeated
// invocations can tell a finished import from an interrupted one.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wikiport/wikiport/internal/models"
)

// Ledger stores import runs in SQLite.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func Open(dbPath string) (*Ledger, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		collection_id TEXT,
		primary_id TEXT,
		status TEXT NOT NULL,
		blocks INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_title ON runs(title);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateRun inserts a new run.
func (l *Ledger) CreateRun(ctx context.Context, run *models.Run) error {
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, url, title, collection_id, primary_id, status, blocks, pages, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.URL, run.Title, run.CollectionID, run.PrimaryID,
		run.Status, run.Blocks, run.Pages, run.Error, run.CreatedAt, run.UpdatedAt,
	)
	return err
}

// UpdateRun persists the run's current status and progress fields.
func (l *Ledger) UpdateRun(ctx context.Context, run *models.Run) error {
	run.UpdatedAt = time.Now()

	result, err := l.db.ExecContext(ctx,
		`UPDATE runs SET collection_id = ?, primary_id = ?, status = ?, blocks = ?, pages = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		run.CollectionID, run.PrimaryID, run.Status, run.Blocks, run.Pages, run.Error, run.UpdatedAt, run.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// GetRun returns a run by ID.
func (l *Ledger) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run, err := l.queryOne(ctx,
		`SELECT id, url, title, collection_id, primary_id, status, blocks, pages, error, created_at, updated_at
		 FROM runs WHERE id = ?`, id)
	if err == errNotFound {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, err
}

// LatestRunByTitle returns the most recent run for a title, or nil when the
// title has never been imported.
func (l *Ledger) LatestRunByTitle(ctx context.Context, title string) (*models.Run, error) {
	run, err := l.queryOne(ctx,
		`SELECT id, url, title, collection_id, primary_id, status, blocks, pages, error, created_at, updated_at
		 FROM runs WHERE title = ? ORDER BY created_at DESC, id DESC LIMIT 1`, title)
	if err == errNotFound {
		return nil, nil
	}
	return run, err
}

// IsMerged reports whether the title's latest run completed the merge. Used
// as the re-import watermark: a merged title is skipped unless forced.
func (l *Ledger) IsMerged(ctx context.Context, title string) (bool, error) {
	run, err := l.LatestRunByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	return run != nil && run.Status == models.RunMerged, nil
}

// ListRuns returns the most recent runs, newest first.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, url, title, collection_id, primary_id, status, blocks, pages, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountRuns returns the total number of recorded runs.
func (l *Ledger) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

var errNotFound = fmt.Errorf("run not found")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var collectionID, primaryID, errMsg sql.NullString
	if err := row.Scan(&run.ID, &run.URL, &run.Title, &collectionID, &primaryID,
		&run.Status, &run.Blocks, &run.Pages, &errMsg, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.CollectionID = collectionID.String
	run.PrimaryID = primaryID.String
	run.Error = errMsg.String
	return &run, nil
}

func (l *Ledger) queryOne(ctx context.Context, query string, args ...any) (*models.Run, error) {
	run, err := scanRun(l.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
