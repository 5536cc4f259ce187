package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running journal migrations...")

	migrations := []string{
		createWorkflowRunsTable,
		createWorkflowRunsKeyIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All journal migrations completed")
	return nil
}

const createWorkflowRunsTable = `
CREATE TABLE IF NOT EXISTS workflow_runs (
    id SERIAL PRIMARY KEY,
    run_id UUID NOT NULL,
    kind VARCHAR(50) NOT NULL,
    subject_id VARCHAR(100) NOT NULL,
    idempotency_key VARCHAR(200) UNIQUE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'started',
    steps_completed INTEGER NOT NULL DEFAULT 0,
    affected_count INTEGER NOT NULL DEFAULT 0,
    last_error TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('started', 'completed', 'failed'))
);`

const createWorkflowRunsKeyIndex = `
CREATE INDEX IF NOT EXISTS workflow_runs_subject_idx
ON workflow_runs (kind, subject_id);`
