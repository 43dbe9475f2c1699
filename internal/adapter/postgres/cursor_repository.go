package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
)

// CursorRepository implements port.CursorRepository using pgxpool.
type CursorRepository struct {
	pool *pgxpool.Pool
}

// NewCursorRepository returns a new repository instance.
func NewCursorRepository(pool *pgxpool.Pool) *CursorRepository {
	return &CursorRepository{pool: pool}
}

// Get returns the cursor for one (account, platform) pair, or nil when no
// window has ever completed.
func (r *CursorRepository) Get(ctx context.Context, accountID int64, platform domain.Platform) (*domain.SyncCursor, error) {
	var c domain.SyncCursor
	err := r.pool.QueryRow(ctx, `
        SELECT account_id, platform, last_completed_date, updated_at
        FROM sync_cursors
        WHERE account_id = $1 AND platform = $2`, accountID, platform).
		Scan(&c.AccountID, &c.Platform, &c.LastCompletedDate, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Advance upserts the cursor to the completed end date. The cursor only
// moves forward; a replayed older window leaves it untouched.
func (r *CursorRepository) Advance(ctx context.Context, accountID int64, platform domain.Platform, completed time.Time) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO sync_cursors (account_id, platform, last_completed_date)
        VALUES ($1, $2, $3)
        ON CONFLICT (account_id, platform) DO UPDATE SET
            last_completed_date = EXCLUDED.last_completed_date,
            updated_at          = now()
        WHERE sync_cursors.last_completed_date < EXCLUDED.last_completed_date`,
		accountID, platform, completed)
	return err
}
