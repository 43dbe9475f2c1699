package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
)

// AccountRepository implements port.AccountRepository using pgxpool.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a new repository instance.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// ListActive returns all active advertiser accounts for a platform.
func (r *AccountRepository) ListActive(ctx context.Context, platform domain.Platform) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, platform, external_account_id, name, status, sync_start_date, created_at, updated_at
        FROM accounts
        WHERE platform = $1 AND status = 'active'
        ORDER BY id`, platform)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		var a domain.Account
		err := row.Scan(&a.ID, &a.Platform, &a.ExternalAccountID, &a.Name, &a.Status, &a.SyncStartDate, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	})
}
