package scheduler

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aleister1102/dealnotifier/internal/common"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection and provides methods for interacting with run history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunCounters are the per-run totals stored with each history record.
type RunCounters struct {
	Total        int
	Attempted    int
	Notified     int
	NoDeal       int
	NotifyFailed int
	Skipped      int
}

// RunRecord represents a record in the run_history table.
type RunRecord struct {
	ID           int64
	RunID        string
	StartTime    time.Time
	EndTime      sql.NullTime
	Status       string
	ProductsFile sql.NullString
	Counters     RunCounters
	ErrorMessage sql.NullString
}

// NewDB initializes a new DB connection and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "RunHistoryDB").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing run history database")

	dbDir := filepath.Dir(dataSourceName)
	if err := common.NewFileManager(logger).EnsureDirectory(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create run history directory")
		return nil, err
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open run history database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY between runs.
	dbInstance.SetMaxOpenConns(1)

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the run_history table if it doesn't already exist.
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		status TEXT NOT NULL,
		products_file TEXT,
		total INTEGER DEFAULT 0,
		attempted INTEGER DEFAULT 0,
		notified INTEGER DEFAULT 0,
		no_deal INTEGER DEFAULT 0,
		notify_failed INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		error_message TEXT
	);
	`
	if _, err := d.db.Exec(query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	d.logger.Debug().Msg("Schema initialized (run_history table ensured)")
	return nil
}

// RecordRunStart inserts a new record with status STARTED and returns its row ID.
func (d *DB) RecordRunStart(runID string, startTime time.Time) (int64, error) {
	query := `INSERT INTO run_history (run_id, start_time, status) VALUES (?, ?, ?)`
	result, err := d.db.Exec(query, runID, startTime.UTC(), RunStatusStarted)
	if err != nil {
		d.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to record run start")
		return 0, fmt.Errorf("failed to insert run start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Debug().Int64("db_id", id).Str("run_id", runID).Msg("Recorded run start")
	return id, nil
}

// UpdateRunCompletion stores the outcome of a run.
func (d *DB) UpdateRunCompletion(dbID int64, endTime time.Time, status, productsFile string, counters RunCounters, errorMessage string) error {
	query := `UPDATE run_history SET end_time = ?, status = ?, products_file = ?, total = ?, attempted = ?, notified = ?,
		no_deal = ?, notify_failed = ?, skipped = ?, error_message = ? WHERE id = ?`
	result, err := d.db.Exec(query,
		endTime.UTC(), status,
		sql.NullString{String: productsFile, Valid: productsFile != ""},
		counters.Total, counters.Attempted, counters.Notified, counters.NoDeal, counters.NotifyFailed, counters.Skipped,
		sql.NullString{String: errorMessage, Valid: errorMessage != ""},
		dbID)
	if err != nil {
		d.logger.Error().Err(err).Int64("db_id", dbID).Msg("Failed to update run completion")
		return fmt.Errorf("failed to update run completion for ID %d: %w", dbID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no run history record with ID %d", dbID)
	}
	d.logger.Debug().Int64("db_id", dbID).Str("status", status).Msg("Updated run completion")
	return nil
}

// GetLastRunTime returns the start time of the most recent completed run, or nil if there is none.
func (d *DB) GetLastRunTime() (*time.Time, error) {
	query := `SELECT start_time FROM run_history WHERE status = ? ORDER BY start_time DESC LIMIT 1`
	var startTime time.Time
	err := d.db.QueryRow(query, RunStatusCompleted).Scan(&startTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to query last run time")
		return nil, fmt.Errorf("failed to query last run time: %w", err)
	}
	return &startTime, nil
}

// ListRecentRuns returns up to limit records, newest first.
func (d *DB) ListRecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, run_id, start_time, end_time, status, products_file, total, attempted, notified,
		no_deal, notify_failed, skipped, error_message FROM run_history ORDER BY start_time DESC, id DESC LIMIT ?`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.StartTime, &r.EndTime, &r.Status, &r.ProductsFile,
			&r.Counters.Total, &r.Counters.Attempted, &r.Counters.Notified, &r.Counters.NoDeal,
			&r.Counters.NotifyFailed, &r.Counters.Skipped, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run history row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
