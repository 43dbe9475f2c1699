package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boostx/internal/config/configs"
	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// OptimizeUseCase runs the budget allocation strategies over active plans
// and rolls daily envelopes forward. Every run's computed decisions are
// appended to the optimization log before anything else happens; the log
// records intent, actuating it against the live platform is a separate
// manual step.
type OptimizeUseCase struct {
	budgets   port.BudgetRepository
	contents  port.ContentRepository
	campaigns port.CampaignRepository
	runs      port.RunRepository

	cfg configs.Optimizer
	log *slog.Logger
	now func() time.Time
}

// NewOptimizeUseCase creates the optimizer usecase.
func NewOptimizeUseCase(
	budgets port.BudgetRepository,
	contents port.ContentRepository,
	campaigns port.CampaignRepository,
	runs port.RunRepository,
	cfg configs.Optimizer,
	log *slog.Logger,
) *OptimizeUseCase {
	return &OptimizeUseCase{
		budgets:   budgets,
		contents:  contents,
		campaigns: campaigns,
		runs:      runs,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RunOptimization allocates today's envelope for every unlocked
// allocation of every active plan. A day already processed by an
// allocation's strategy is skipped, so reruns within the same day are
// no-ops.
func (u *OptimizeUseCase) RunOptimization(ctx context.Context) (port.OptimizeSummary, error) {
	var sum port.OptimizeSummary
	runID, err := u.runs.Start(ctx, "budget_optimize", port.TriggerFrom(ctx))
	if err != nil {
		return sum, err
	}
	today := day(u.now())

	plans, err := u.budgets.ActivePlans(ctx, today)
	if err != nil {
		_ = u.runs.Complete(ctx, runID, false, err.Error(), 0, 0, 0)
		return sum, err
	}
	sum.Plans = len(plans)

	for _, plan := range plans {
		allocs, err := u.budgets.Allocations(ctx, plan.ID)
		if err != nil {
			sum.Errors++
			u.log.Error("load allocations failed", "plan", plan.ID, "error", err)
			continue
		}
		for _, alloc := range allocs {
			sum.Allocations++
			if err := u.optimizeAllocation(ctx, plan, alloc, today, &sum); err != nil {
				sum.Errors++
				u.log.Error("allocation failed", "allocation", alloc.ID, "error", err)
			}
		}
	}

	msg := fmt.Sprintf("plans=%d allocations=%d decisions=%d skipped=%d",
		sum.Plans, sum.Allocations, sum.Decisions, sum.Skipped)
	_ = u.runs.Complete(ctx, runID, sum.Errors == 0, msg, sum.Allocations, sum.Decisions, sum.Errors)
	return sum, nil
}

func (u *OptimizeUseCase) optimizeAllocation(ctx context.Context, plan domain.BudgetPlan, alloc domain.BudgetAllocation, today time.Time, sum *port.OptimizeSummary) error {
	if alloc.IsLocked {
		sum.Skipped++
		return nil
	}
	daily, err := u.budgets.DailyBudget(ctx, alloc.ID, today)
	if err != nil {
		return err
	}
	if daily == nil || daily.IsLocked {
		sum.Skipped++
		return nil
	}

	var decisions []domain.AllocationDecision
	started := u.now()
	switch alloc.Strategy {
	case domain.StrategyContent:
		if daily.ContentAllocated {
			sum.Skipped++
			return nil
		}
		decisions, err = u.allocateByContent(ctx, daily.PlannedBudget-daily.ActualSpend)
	case domain.StrategyGroup:
		if daily.GroupAllocated {
			sum.Skipped++
			return nil
		}
		decisions, err = u.allocateByGroup(ctx, daily.StyleBudgets)
	default:
		return fmt.Errorf("unknown strategy %q", alloc.Strategy)
	}
	if err != nil {
		return err
	}

	entry := domain.OptimizationLog{
		PlanID:       plan.ID,
		AllocationID: alloc.ID,
		Strategy:     alloc.Strategy,
		StartedAt:    started,
		CompletedAt:  u.now(),
		Status:       "completed",
		Decisions:    decisions,
	}
	for _, d := range decisions {
		if d.Amount > 0 {
			entry.ChangesMade++
			entry.TotalAdjusted += d.Amount
		}
	}
	if err := u.budgets.AppendLog(ctx, &entry); err != nil {
		return err
	}
	sum.Decisions += len(decisions)
	return u.budgets.MarkAllocated(ctx, daily.ID, alloc.Strategy)
}

// allocateByContent ranks content by score and splits the envelope
// proportionally across the top N. A share that lands below the minimum
// floor is dropped, not redistributed; the dropped amount is still logged
// so under-spend stays visible.
func (u *OptimizeUseCase) allocateByContent(ctx context.Context, envelope int64) ([]domain.AllocationDecision, error) {
	if envelope <= 0 {
		return nil, nil
	}
	tops, err := u.contents.TopByScore(ctx, u.cfg.TopContent)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, c := range tops {
		total += c.Score
	}
	if total <= 0 {
		return nil, nil
	}

	decisions := make([]domain.AllocationDecision, 0, len(tops))
	for _, c := range tops {
		amount := int64(c.Score / total * float64(envelope))
		d := domain.AllocationDecision{
			TargetKind: "content",
			TargetID:   c.ID,
			ExternalID: c.ExternalPostID,
			Score:      c.Score,
			Amount:     amount,
		}
		if amount < u.cfg.MinAllocation {
			d.Amount = 0
			d.Reason = fmt.Sprintf("dropped: share %d below minimum %d", amount, u.cfg.MinAllocation)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

// allocateByGroup splits each style's budget evenly across the style's
// active managed groups, then scales every group's share by its score
// tier multiplier.
func (u *OptimizeUseCase) allocateByGroup(ctx context.Context, styleBudgets map[domain.ContentStyle]int64) ([]domain.AllocationDecision, error) {
	groups, err := u.campaigns.ListGroupsForAllocation(ctx)
	if err != nil {
		return nil, err
	}
	byStyle := map[domain.ContentStyle][]domain.AdGroup{}
	for _, g := range groups {
		byStyle[g.Style] = append(byStyle[g.Style], g)
	}

	var decisions []domain.AllocationDecision
	for style, budget := range styleBudgets {
		styled := byStyle[style]
		if budget <= 0 || len(styled) == 0 {
			continue
		}
		base := budget / int64(len(styled))
		for _, g := range styled {
			amount := int64(float64(base) * domain.TierMultiplier(g.Score))
			d := domain.AllocationDecision{
				TargetKind: "adgroup",
				TargetID:   g.ID,
				ExternalID: g.ExternalAdGroupID,
				Style:      string(style),
				Score:      g.Score,
				Amount:     amount,
			}
			if amount < u.cfg.MinAllocation {
				d.Amount = 0
				d.Reason = fmt.Sprintf("dropped: share %d below minimum %d", amount, u.cfg.MinAllocation)
			}
			decisions = append(decisions, d)
		}
	}
	return decisions, nil
}

// RollForwardDailyBudgets creates today's envelope for every unlocked
// allocation that does not have one yet. The planned amount spreads the
// allocation's remaining budget evenly over the plan days left, clamped
// so the sum of planned amounts never exceeds the plan's remaining
// balance.
func (u *OptimizeUseCase) RollForwardDailyBudgets(ctx context.Context) (int, error) {
	runID, err := u.runs.Start(ctx, "daily_budget", port.TriggerFrom(ctx))
	if err != nil {
		return 0, err
	}
	today := day(u.now())
	created, errs := 0, 0

	plans, err := u.budgets.ActivePlans(ctx, today)
	if err != nil {
		_ = u.runs.Complete(ctx, runID, false, err.Error(), 0, 0, 0)
		return 0, err
	}

	for _, plan := range plans {
		daysLeft := int64(day(plan.EndDate).Sub(today).Hours()/24) + 1
		if daysLeft <= 0 {
			continue
		}
		allocs, err := u.budgets.Allocations(ctx, plan.ID)
		if err != nil {
			errs++
			u.log.Error("load allocations failed", "plan", plan.ID, "error", err)
			continue
		}
		for _, alloc := range allocs {
			n, err := u.rollForwardAllocation(ctx, plan, alloc, today, daysLeft)
			if err != nil {
				errs++
				u.log.Error("daily budget roll-forward failed", "allocation", alloc.ID, "error", err)
				continue
			}
			created += n
		}
	}

	msg := fmt.Sprintf("created=%d", created)
	_ = u.runs.Complete(ctx, runID, errs == 0, msg, created, created, errs)
	return created, nil
}

func (u *OptimizeUseCase) rollForwardAllocation(ctx context.Context, plan domain.BudgetPlan, alloc domain.BudgetAllocation, today time.Time, daysLeft int64) (int, error) {
	if alloc.IsLocked {
		return 0, nil
	}
	existing, err := u.budgets.DailyBudget(ctx, alloc.ID, today)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, nil
	}

	spent, err := u.budgets.SpentBefore(ctx, alloc.ID, today)
	if err != nil {
		return 0, err
	}
	remaining := alloc.AllocatedBudget - spent
	if remaining <= 0 {
		return 0, nil
	}
	planned := remaining / daysLeft

	// keep the plan-level invariant: planned today across all allocations
	// must fit the plan's remaining balance
	plannedToday, err := u.budgets.PlannedOn(ctx, plan.ID, today)
	if err != nil {
		return 0, err
	}
	if avail := plan.TotalBudget - plan.ActualSpend - plannedToday; planned > avail {
		planned = avail
	}
	if planned <= 0 {
		return 0, nil
	}

	styles := make(map[domain.ContentStyle]int64, len(alloc.StyleWeights))
	for style, weight := range alloc.StyleWeights {
		styles[style] = int64(float64(planned) * weight / 100)
	}
	daily := domain.DailyBudget{
		AllocationID:  alloc.ID,
		Date:          today,
		PlannedBudget: planned,
		StyleBudgets:  styles,
	}
	if err := u.budgets.CreateDailyBudget(ctx, &daily); err != nil {
		return 0, err
	}
	return 1, nil
}
