package metadatastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// SQLiteStore provides SQLite-based persistence for predictions and export jobs
type SQLiteStore struct {
	db *sql.DB
}

var _ MetadataStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite-based storage instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// modernc applies each _pragma on every new connection
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite anyway
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check journal mode: %w", err)
	}
	// In-memory databases cannot use WAL
	if journalMode != "wal" && !(dbPath == ":memory:" && journalMode == "memory") {
		db.Close()
		return nil, fmt.Errorf("unexpected journal mode: got %s", journalMode)
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// retryOnBusy retries a database operation if it fails due to SQLITE_BUSY.
// This is a safety net on top of the busy_timeout pragma.
func (s *SQLiteStore) retryOnBusy(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "SQLITE_BUSY") {
			// 10ms, 20ms, 40ms, ...
			backoff := time.Duration(10*(1<<uint(i))) * time.Millisecond
			time.Sleep(backoff)
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}

// initSchema creates the database schema if it doesn't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		region TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_label ON predictions(label);

	CREATE TABLE IF NOT EXISTS export_jobs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		scope TEXT NOT NULL,
		name TEXT NOT NULL,
		submitted_at DATETIME NOT NULL,
		completed_at DATETIME,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_export_jobs_status ON export_jobs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePrediction saves a served prediction
func (s *SQLiteStore) SavePrediction(record *models.PredictionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO predictions (id, label, region, created_at, data)
		VALUES (?, ?, ?, ?, ?)
	`

	err = s.retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			record.ID,
			record.Result.Label,
			record.Request.Region,
			record.CreatedAt,
			string(data),
		)
		return err
	}, 5)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	return nil
}

// GetPrediction retrieves a prediction by ID
func (s *SQLiteStore) GetPrediction(id string) (*models.PredictionRecord, error) {
	var data string
	query := `SELECT data FROM predictions WHERE id = ?`

	err := s.db.QueryRow(query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prediction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	var record models.PredictionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction: %w", err)
	}

	return &record, nil
}

// ListPredictions lists the most recent predictions first. A non-positive
// limit returns every prediction.
func (s *SQLiteStore) ListPredictions(limit int) ([]*models.PredictionRecord, error) {
	query := `SELECT data FROM predictions ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PredictionRecord, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			continue
		}

		var record models.PredictionRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

// CountPredictionsByLabel returns how often each label was served
func (s *SQLiteStore) CountPredictionsByLabel() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT label, COUNT(*) FROM predictions GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("failed to scan prediction count: %w", err)
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

// SaveExportJob inserts or updates an export job
func (s *SQLiteStore) SaveExportJob(job *models.ExportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal export job: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO export_jobs (id, status, scope, name, submitted_at, completed_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err = s.retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			job.ID,
			job.Status,
			job.Scope,
			job.Name,
			job.SubmittedAt,
			job.CompletedAt,
			string(data),
		)
		return err
	}, 5)
	if err != nil {
		return fmt.Errorf("failed to save export job: %w", err)
	}

	return nil
}

// GetExportJob retrieves an export job by ID
func (s *SQLiteStore) GetExportJob(id string) (*models.ExportJob, error) {
	var data string
	query := `SELECT data FROM export_jobs WHERE id = ?`

	err := s.db.QueryRow(query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export job: %w", err)
	}

	var job models.ExportJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal export job: %w", err)
	}

	return &job, nil
}

// ListExportJobs lists the most recently submitted jobs first
func (s *SQLiteStore) ListExportJobs(limit int) ([]*models.ExportJob, error) {
	query := `SELECT data FROM export_jobs ORDER BY submitted_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryExportJobs(query, args...)
}

// ListExportJobsByStatus lists jobs in one status, oldest first
func (s *SQLiteStore) ListExportJobsByStatus(status models.ExportJobStatus) ([]*models.ExportJob, error) {
	return s.queryExportJobs(`SELECT data FROM export_jobs WHERE status = ? ORDER BY submitted_at ASC, id`, status)
}

func (s *SQLiteStore) queryExportJobs(query string, args ...any) ([]*models.ExportJob, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list export jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.ExportJob, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			continue
		}

		var job models.ExportJob
		if err := json.Unmarshal([]byte(data), &job); err != nil {
			continue
		}

		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}
