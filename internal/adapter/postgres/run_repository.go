package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
)

// RunRepository implements port.RunRepository using pgxpool.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository returns a new repository instance.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Start inserts a running row and returns its generated id.
func (r *RunRepository) Start(ctx context.Context, name, triggeredBy string) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
        INSERT INTO task_runs (id, name, status, triggered_by)
        VALUES ($1, $2, 'running', $3)`, id, name, triggeredBy)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Complete finalizes a run with its outcome and counters.
func (r *RunRepository) Complete(ctx context.Context, runID string, success bool, message string, processed, succeeded, failed int) error {
	status := domain.RunCompleted
	if !success {
		status = domain.RunFailed
	}
	_, err := r.pool.Exec(ctx, `
        UPDATE task_runs SET
            status       = $2,
            completed_at = now(),
            message      = $3,
            processed    = $4,
            succeeded    = $5,
            failed       = $6
        WHERE id = $1 AND status = 'running'`,
		runID, status, message, processed, succeeded, failed)
	return err
}

// FailStale force-fails runs stuck in running longer than maxAge.
func (r *RunRepository) FailStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	tag, err := r.pool.Exec(ctx, `
        UPDATE task_runs SET
            status       = 'failed',
            completed_at = now(),
            message      = 'run exceeded the staleness window and was force-failed'
        WHERE status = 'running' AND started_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// List returns the most recent runs.
func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.TaskRun, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, status, started_at, completed_at, message, processed, succeeded, failed, triggered_by
        FROM task_runs
        ORDER BY started_at DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TaskRun, error) {
		var t domain.TaskRun
		err := row.Scan(&t.ID, &t.Name, &t.Status, &t.StartedAt, &t.CompletedAt, &t.Message, &t.Processed, &t.Succeeded, &t.Failed, &t.TriggeredBy)
		return t, err
	})
}

// Get returns one run by id, or nil when unknown.
func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.TaskRun, error) {
	var t domain.TaskRun
	err := r.pool.QueryRow(ctx, `
        SELECT id, name, status, started_at, completed_at, message, processed, succeeded, failed, triggered_by
        FROM task_runs
        WHERE id = $1`, runID).
		Scan(&t.ID, &t.Name, &t.Status, &t.StartedAt, &t.CompletedAt, &t.Message, &t.Processed, &t.Succeeded, &t.Failed, &t.TriggeredBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
