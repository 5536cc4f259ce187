package repository

import (
	"context"
	"database/sql"
	"time"

	"bullpen/internal/database"
)

// WorkflowRun records one execution of a multi-step workflow. The
// idempotency key is what keeps re-invoked sagas from duplicating their
// side effects.
type WorkflowRun struct {
	ID             int64
	RunID          string
	Kind           string
	SubjectID      string
	IdempotencyKey string
	Status         string
	StepsCompleted int
	AffectedCount  int
	LastError      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Run statuses
const (
	RunStarted   = "started"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

type JournalRepository struct {
	db *database.DB
}

func NewJournalRepository(db *database.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Begin inserts a run for the given idempotency key, or takes over an
// existing run that ended in failed so the saga can be retried. Returns
// (false, nil) when a run with the same key is started or completed.
func (r *JournalRepository) Begin(ctx context.Context, run *WorkflowRun) (bool, error) {
	query := `
		INSERT INTO workflow_runs (run_id, kind, subject_id, idempotency_key, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (idempotency_key) DO UPDATE
		SET run_id = EXCLUDED.run_id,
		    status = EXCLUDED.status,
		    steps_completed = 0,
		    last_error = NULL,
		    updated_at = NOW()
		WHERE workflow_runs.status = $6
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		run.RunID,
		run.Kind,
		run.SubjectID,
		run.IdempotencyKey,
		RunStarted,
		RunFailed,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	run.Status = RunStarted
	return true, nil
}

// Step records progress so a partial failure is visible in the journal
func (r *JournalRepository) Step(ctx context.Context, id int64, stepsCompleted int) error {
	query := `
		UPDATE workflow_runs
		SET steps_completed = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, stepsCompleted, id)
	return err
}

// Complete marks the run finished with its affected-record count
func (r *JournalRepository) Complete(ctx context.Context, id int64, affected int) error {
	query := `
		UPDATE workflow_runs
		SET status = $1, affected_count = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, RunCompleted, affected, id)
	return err
}

// Fail records the error that stopped the run. Earlier steps are not
// compensated; the journal is what makes the gap observable.
func (r *JournalRepository) Fail(ctx context.Context, id int64, cause error) error {
	query := `
		UPDATE workflow_runs
		SET status = $1, last_error = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, RunFailed, cause.Error(), id)
	return err
}

// GetBySubject returns runs for one subject, newest first
func (r *JournalRepository) GetBySubject(ctx context.Context, kind, subjectID string) ([]WorkflowRun, error) {
	query := `
		SELECT id, run_id, kind, subject_id, idempotency_key, status,
		       steps_completed, affected_count, last_error, created_at, updated_at
		FROM workflow_runs
		WHERE kind = $1 AND subject_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, kind, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []WorkflowRun
	for rows.Next() {
		var run WorkflowRun
		err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Kind,
			&run.SubjectID,
			&run.IdempotencyKey,
			&run.Status,
			&run.StepsCompleted,
			&run.AffectedCount,
			&run.LastError,
			&run.CreatedAt,
			&run.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
