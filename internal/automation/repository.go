package automation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RunRecord is the persisted audit record of one automation run.
// The catalog itself is in-memory; run records are the durable trail.
type RunRecord struct {
	ID             string         `json:"id"`
	AutomationID   string         `json:"automation_id"`
	AutomationName string         `json:"automation_name"`
	ExecutedAt     time.Time      `json:"executed_at"`
	Succeeded      bool           `json:"succeeded"`
	ActionsTotal   int            `json:"actions_total"`
	ActionsFailed  int            `json:"actions_failed"`
	Results        []ActionResult `json:"results,omitempty"`
	DurationMS     int64          `json:"duration_ms"`
}

// NewRunRecord builds a RunRecord from a completed run.
func NewRunRecord(run *RunResult) *RunRecord {
	failed := 0
	for _, r := range run.Results {
		if !r.Succeeded {
			failed++
		}
	}
	return &RunRecord{
		ID:             run.RunID,
		AutomationID:   run.AutomationID,
		AutomationName: run.AutomationName,
		ExecutedAt:     run.ExecutedAt,
		Succeeded:      run.Succeeded,
		ActionsTotal:   len(run.Results),
		ActionsFailed:  failed,
		Results:        run.Results,
		DurationMS:     run.DurationMS,
	}
}

// Repository defines the interface for run-history persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	CreateRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, automationID string, limit int) ([]RunRecord, error)
	ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

// runColumns is the SELECT column list for run queries.
const runColumns = `id, automation_id, automation_name, executed_at, succeeded,
			actions_total, actions_failed, results, duration_ms`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateRun inserts a run record.
func (r *SQLiteRepository) CreateRun(ctx context.Context, rec *RunRecord) error {
	resultsJSON, err := marshalResults(rec.Results)
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}

	query := `
		INSERT INTO automation_runs (
			id, automation_id, automation_name, executed_at, succeeded,
			actions_total, actions_failed, results, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.AutomationID,
		rec.AutomationName,
		rec.ExecutedAt.Format(time.RFC3339),
		boolToInt(rec.Succeeded),
		rec.ActionsTotal,
		rec.ActionsFailed,
		resultsJSON,
		rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by ID.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM automation_runs WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanRunRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return rec, nil
}

// ListRuns retrieves recent runs for one automation, newest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, automationID string, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + `
		FROM automation_runs
		WHERE automation_id = ?
		ORDER BY executed_at DESC
		LIMIT ?`
	return r.queryRuns(ctx, query, automationID, clampLimit(limit))
}

// ListRecentRuns retrieves recent runs across all automations.
func (r *SQLiteRepository) ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + `
		FROM automation_runs
		ORDER BY executed_at DESC
		LIMIT ?`
	return r.queryRuns(ctx, query, clampLimit(limit))
}

// queryRuns executes a query and returns a slice of run records.
func (r *SQLiteRepository) queryRuns(ctx context.Context, query string, args ...any) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, scanErr := scanRunRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning run: %w", scanErr)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return records, nil
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRow(scanner rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var executedAt string
	var succeeded int
	var resultsJSON sql.NullString

	err := scanner.Scan(
		&rec.ID,
		&rec.AutomationID,
		&rec.AutomationName,
		&executedAt,
		&succeeded,
		&rec.ActionsTotal,
		&rec.ActionsFailed,
		&resultsJSON,
		&rec.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	rec.Succeeded = succeeded != 0

	if t, parseErr := time.Parse(time.RFC3339, executedAt); parseErr == nil {
		rec.ExecutedAt = t
	}

	if resultsJSON.Valid && resultsJSON.String != "" && resultsJSON.String != "null" {
		if jsonErr := json.Unmarshal([]byte(resultsJSON.String), &rec.Results); jsonErr != nil {
			return nil, fmt.Errorf("unmarshalling results: %w", jsonErr)
		}
	}

	return &rec, nil
}

// ─── SQL Helpers ────────────────────────────────────────────────────────────

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func marshalResults(results []ActionResult) (sql.NullString, error) {
	if len(results) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(results)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
