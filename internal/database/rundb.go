package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quizscan/quizscan/internal/model"
)

// RunDB provides SQLite-based storage for quiz run reports.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than a file per target. Quiz runs are small and infrequent, and a
// single file keeps history queries and backup trivial.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "quizscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store the full report of each pipeline invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		method TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		fields TEXT,
		answer_json TEXT,
		submit_status INTEGER,
		submit_attempts INTEGER,
		error_stage TEXT,
		error_message TEXT,
		report_json TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun persists a completed pipeline run. The secret and raw HTML are
// excluded by the model's JSON tags before the report reaches storage.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.QuizReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	method := ""
	if report.Snapshot != nil {
		method = string(report.Snapshot.Method)
	}

	fields := ""
	if report.Task != nil {
		fields = strings.Join(report.Task.RequiredFields, ",")
	}

	var answerJSON string
	if report.Answer != nil {
		if payload, err := report.Answer.MarshalOrdered(); err == nil {
			answerJSON = string(payload)
		}
	}

	var submitStatus, submitAttempts int
	if report.Submission != nil {
		submitStatus = report.Submission.StatusCode
		submitAttempts = report.Submission.Attempts
	}

	query := `
	INSERT INTO runs (target, method, started_at, finished_at, fields, answer_json,
		submit_status, submit_attempts, error_stage, error_message, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		report.Target,
		method,
		report.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		report.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		fields,
		answerJSON,
		submitStatus,
		submitAttempts,
		report.ErrorStage,
		report.ErrorMessage,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestRun retrieves the most recent run report for a target.
// Returns nil without error when no run exists.
func (rdb *RunDB) GetLatestRun(ctx context.Context, target string) (*model.QuizReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE target = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, target).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.QuizReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunByID retrieves a run report by its database ID.
// Returns nil without error when the ID is unknown.
func (rdb *RunDB) GetRunByID(ctx context.Context, id int64) (*model.QuizReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ?
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.QuizReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for listing run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Target is the quiz page URL that was solved.
	Target string

	// Method is the fetch method that produced the snapshot.
	Method string

	// Timestamp is when the run was stored.
	Timestamp time.Time

	// AnswerJSON is the ordered payload that was (or would be) submitted.
	AnswerJSON string

	// SubmitStatus is the final HTTP status of the submission, 0 if none.
	SubmitStatus int

	// SubmitAttempts is the number of POSTs performed.
	SubmitAttempts int

	// ErrorStage names the failed step, empty on success.
	ErrorStage string

	// ErrorMessage describes the failure, empty on success.
	ErrorMessage string
}

// ListRuns retrieves metadata for the most recent runs, newest first.
// A limit of zero or less returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, target, method, timestamp, answer_json, submit_status,
		submit_attempts, error_stage, error_message
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var answerJSON sql.NullString

		err := rows.Scan(
			&meta.ID,
			&meta.Target,
			&meta.Method,
			&timestamp,
			&answerJSON,
			&meta.SubmitStatus,
			&meta.SubmitAttempts,
			&meta.ErrorStage,
			&meta.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if answerJSON.Valid {
			meta.AnswerJSON = answerJSON.String
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// HasRecentRun checks whether a target was solved within the given duration.
func (rdb *RunDB) HasRecentRun(ctx context.Context, target string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM runs
	WHERE target = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := rdb.db.QueryRowContext(ctx, query, target, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent run: %w", err)
	}

	return count > 0, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
