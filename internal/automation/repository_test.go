package automation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// openRunDB creates an in-memory database with the automation_runs
// schema applied.
func openRunDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	schema := `
		CREATE TABLE automation_runs (
			id              TEXT PRIMARY KEY,
			automation_id   TEXT NOT NULL,
			automation_name TEXT NOT NULL,
			executed_at     TEXT NOT NULL,
			succeeded       INTEGER NOT NULL,
			actions_total   INTEGER NOT NULL,
			actions_failed  INTEGER NOT NULL,
			results         TEXT,
			duration_ms     INTEGER NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	return db
}

func sampleRecord(id, automationID string, executedAt time.Time, succeeded bool) *RunRecord {
	return &RunRecord{
		ID:             id,
		AutomationID:   automationID,
		AutomationName: "sample",
		ExecutedAt:     executedAt,
		Succeeded:      succeeded,
		ActionsTotal:   2,
		ActionsFailed:  1,
		Results: []ActionResult{
			{Index: 0, Kind: ActionCreateTask, Succeeded: true},
			{Index: 1, Kind: ActionSendMessage, Succeeded: false, Error: "gateway: forced failure"},
		},
		DurationMS: 42,
	}
}

func TestRunRepositoryRoundTrip(t *testing.T) {
	repo := NewSQLiteRepository(openRunDB(t))
	ctx := context.Background()

	executedAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rec := sampleRecord("run-1", "auto-1", executedAt, false)

	if err := repo.CreateRun(ctx, rec); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	got, err := repo.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.AutomationID != "auto-1" || got.AutomationName != "sample" {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.ExecutedAt.Equal(executedAt) {
		t.Errorf("ExecutedAt = %v, want %v", got.ExecutedAt, executedAt)
	}
	if got.Succeeded {
		t.Error("Succeeded should round-trip as false")
	}
	if got.ActionsTotal != 2 || got.ActionsFailed != 1 {
		t.Errorf("action counts = %d/%d, want 2/1", got.ActionsTotal, got.ActionsFailed)
	}
	if len(got.Results) != 2 || got.Results[1].Error == "" {
		t.Errorf("per-action results not preserved: %+v", got.Results)
	}
}

func TestGetRunNotFound(t *testing.T) {
	repo := NewSQLiteRepository(openRunDB(t))
	if _, err := repo.GetRun(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	repo := NewSQLiteRepository(openRunDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := sampleRecord(id, "auto-1", base.Add(time.Duration(i)*time.Hour), true)
		if err := repo.CreateRun(ctx, rec); err != nil {
			t.Fatalf("CreateRun(%s) error = %v", id, err)
		}
	}
	// A different automation's run must not appear.
	if err := repo.CreateRun(ctx, sampleRecord("run-x", "auto-2", base, true)); err != nil {
		t.Fatalf("CreateRun(run-x) error = %v", err)
	}

	runs, err := repo.ListRuns(ctx, "auto-1", 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Errorf("runs not newest-first: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := repo.ListRuns(ctx, "auto-1", 2)
	if err != nil {
		t.Fatalf("ListRuns(limit) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit not applied, got %d runs", len(limited))
	}
}

func TestListRecentRunsAcrossAutomations(t *testing.T) {
	repo := NewSQLiteRepository(openRunDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if err := repo.CreateRun(ctx, sampleRecord("run-1", "auto-1", base, true)); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := repo.CreateRun(ctx, sampleRecord("run-2", "auto-2", base.Add(time.Hour), true)); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	runs, err := repo.ListRecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentRuns() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" {
		t.Errorf("unexpected recent runs: %+v", runs)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 10},
		{-3, 10},
		{5, 5},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewRunRecordCounts(t *testing.T) {
	run := &RunResult{
		RunID:        "run-9",
		AutomationID: "auto-9",
		Succeeded:    false,
		Results: []ActionResult{
			{Succeeded: true},
			{Succeeded: false},
			{Succeeded: false},
		},
	}
	rec := NewRunRecord(run)
	if rec.ActionsTotal != 3 || rec.ActionsFailed != 2 {
		t.Errorf("counts = %d/%d, want 3/2", rec.ActionsTotal, rec.ActionsFailed)
	}
	if rec.ID != "run-9" {
		t.Errorf("record ID = %s", rec.ID)
	}
}
