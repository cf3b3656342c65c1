package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

const schema = `
CREATE TABLE IF NOT EXISTS archive_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    archive_path TEXT NOT NULL,
    status TEXT NOT NULL,
    records INTEGER NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archive_events_run ON archive_events(run_id);
`

// Event is one recorded archive outcome.
type Event struct {
	RunID       string
	ArchivePath string
	Status      string
	Records     int
	Note        string
	RecordedAt  time.Time
}

// RunSummary aggregates the events of one scan run.
type RunSummary struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Archives int
	Records  int
	Failures int
}

// Store manages scan journal persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	lock   *flock.Flock
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the journal database. The database
// directory is created as needed, and an advisory file lock beside the
// database must be acquired; a second scanner process fails fast here.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open",
			"journal is locked by another scanner process", nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Store{
		db:     db,
		lock:   lock,
		path:   path,
		logger: logging.NewComponentLogger(logger, "journal"),
	}, nil
}

// Close releases the database and its advisory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.db != nil {
		closeErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// RecordArchive appends one archive outcome. Failures are logged, never
// surfaced: the journal must not be able to fail a scan.
func (s *Store) RecordArchive(ctx context.Context, archivePath, status string, records int, note string) {
	runID, _ := services.RunIDFromContext(ctx)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO archive_events (run_id, archive_path, status, records, note, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		archivePath,
		status,
		records,
		note,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warn("failed to record archive outcome",
			logging.String("archive", archivePath),
			logging.Error(err))
	}
}

// RecentRuns returns summaries of the most recent scan runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id,
                MIN(recorded_at),
                MAX(recorded_at),
                COUNT(*),
                SUM(records),
                SUM(CASE WHEN status NOT IN (?, ?) THEN 1 ELSE 0 END)
           FROM archive_events
          GROUP BY run_id
          ORDER BY MIN(recorded_at) DESC
          LIMIT ?`,
		"done", "skipped_encrypted", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var summary RunSummary
		var started, finished string
		if err := rows.Scan(&summary.RunID, &started, &finished,
			&summary.Archives, &summary.Records, &summary.Failures); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		summary.Started, _ = time.Parse(time.RFC3339Nano, started)
		summary.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// RunEvents returns the recorded events of one run in insertion order.
func (s *Store) RunEvents(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, archive_path, status, records, note, recorded_at
           FROM archive_events
          WHERE run_id = ?
          ORDER BY id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var recordedAt string
		if err := rows.Scan(&event.RunID, &event.ArchivePath, &event.Status,
			&event.Records, &event.Note, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		events = append(events, event)
	}
	return events, rows.Err()
}
