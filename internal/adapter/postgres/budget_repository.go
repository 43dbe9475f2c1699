package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
)

// BudgetRepository implements port.BudgetRepository using pgxpool. Style
// weight and style budget maps are stored as jsonb; optimization logs are
// insert-only.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository returns a new repository instance.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// ActivePlans returns active plans whose date range covers the given day.
func (r *BudgetRepository) ActivePlans(ctx context.Context, onDate time.Time) ([]domain.BudgetPlan, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, start_date, end_date, total_budget, actual_spend, is_active, created_at, updated_at
        FROM budget_plans
        WHERE is_active AND $1::date BETWEEN start_date AND end_date
        ORDER BY id`, onDate)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BudgetPlan, error) {
		var p domain.BudgetPlan
		err := row.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.TotalBudget, &p.ActualSpend, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
}

// Allocations returns all allocations of a plan.
func (r *BudgetRepository) Allocations(ctx context.Context, planID int64) ([]domain.BudgetAllocation, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, plan_id, name, strategy, allocated_budget, actual_spend, is_locked, style_weights, created_at, updated_at
        FROM budget_allocations
        WHERE plan_id = $1
        ORDER BY id`, planID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BudgetAllocation, error) {
		var a domain.BudgetAllocation
		var weightsRaw []byte
		err := row.Scan(&a.ID, &a.PlanID, &a.Name, &a.Strategy, &a.AllocatedBudget, &a.ActualSpend, &a.IsLocked, &weightsRaw, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return a, err
		}
		err = json.Unmarshal(weightsRaw, &a.StyleWeights)
		return a, err
	})
}

// DailyBudget returns one day's envelope for an allocation, or nil when
// the day has not been created yet.
func (r *BudgetRepository) DailyBudget(ctx context.Context, allocationID int64, date time.Time) (*domain.DailyBudget, error) {
	var d domain.DailyBudget
	var stylesRaw []byte
	err := r.pool.QueryRow(ctx, `
        SELECT id, allocation_id, date, planned_budget, actual_spend, is_locked, content_allocated, group_allocated, style_budgets, created_at, updated_at
        FROM daily_budgets
        WHERE allocation_id = $1 AND date = $2::date`, allocationID, date).
		Scan(&d.ID, &d.AllocationID, &d.Date, &d.PlannedBudget, &d.ActualSpend, &d.IsLocked, &d.ContentAllocated, &d.GroupAllocated, &stylesRaw, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(stylesRaw, &d.StyleBudgets); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDailyBudget inserts one day's envelope and fills in the generated
// id. Duplicate (allocation, date) pairs fail on the unique key.
func (r *BudgetRepository) CreateDailyBudget(ctx context.Context, d *domain.DailyBudget) error {
	if d.StyleBudgets == nil {
		d.StyleBudgets = map[domain.ContentStyle]int64{}
	}
	stylesRaw, err := json.Marshal(d.StyleBudgets)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
        INSERT INTO daily_budgets (allocation_id, date, planned_budget, actual_spend, is_locked, content_allocated, group_allocated, style_budgets)
        VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`,
		d.AllocationID, d.Date, d.PlannedBudget, d.ActualSpend, d.IsLocked, d.ContentAllocated, d.GroupAllocated, stylesRaw).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// SpentBefore sums actual spend of an allocation's days strictly before
// the given date.
func (r *BudgetRepository) SpentBefore(ctx context.Context, allocationID int64, before time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
        SELECT COALESCE(sum(actual_spend), 0)
        FROM daily_budgets
        WHERE allocation_id = $1 AND date < $2::date`, allocationID, before).Scan(&total)
	return total, err
}

// PlannedOn sums planned amounts across a plan's allocations for one day.
func (r *BudgetRepository) PlannedOn(ctx context.Context, planID int64, date time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
        SELECT COALESCE(sum(d.planned_budget), 0)
        FROM daily_budgets d
        JOIN budget_allocations a ON a.id = d.allocation_id
        WHERE a.plan_id = $1 AND d.date = $2::date`, planID, date).Scan(&total)
	return total, err
}

// MarkAllocated flips the per-strategy processed flag of a daily budget.
func (r *BudgetRepository) MarkAllocated(ctx context.Context, dailyBudgetID int64, strategy domain.AllocationStrategy) error {
	column := "content_allocated"
	if strategy == domain.StrategyGroup {
		column = "group_allocated"
	}
	_, err := r.pool.Exec(ctx, `
        UPDATE daily_budgets SET `+column+` = TRUE, updated_at = now()
        WHERE id = $1`, dailyBudgetID)
	return err
}

// AppendLog inserts one optimization log row and fills in the generated
// id. Rows are never updated afterwards.
func (r *BudgetRepository) AppendLog(ctx context.Context, log *domain.OptimizationLog) error {
	if log.Decisions == nil {
		log.Decisions = []domain.AllocationDecision{}
	}
	decisionsRaw, err := json.Marshal(log.Decisions)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
        INSERT INTO optimization_logs (plan_id, allocation_id, strategy, started_at, completed_at, status, changes_made, total_adjusted, decisions, error_message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id`,
		log.PlanID, log.AllocationID, log.Strategy, log.StartedAt, log.CompletedAt, log.Status, log.ChangesMade, log.TotalAdjusted, decisionsRaw, log.ErrorMessage).
		Scan(&log.ID)
}
