package domain

import "time"

// BudgetPlan is a periodic budget envelope. Amounts are minor currency
// units.
type BudgetPlan struct {
	ID          int64
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	TotalBudget int64
	ActualSpend int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllocationStrategy selects how an allocation's daily envelope is
// distributed.
type AllocationStrategy string

const (
	// StrategyContent ranks content by score and splits the envelope
	// proportionally (score-proportional strategy).
	StrategyContent AllocationStrategy = "content"
	// StrategyGroup starts from per-style budget shares and applies
	// score-tier multipliers per ad group.
	StrategyGroup AllocationStrategy = "group"
)

// BudgetAllocation carves a slice of a plan for one allocation target.
type BudgetAllocation struct {
	ID              int64
	PlanID          int64
	Name            string
	Strategy        AllocationStrategy
	AllocatedBudget int64
	ActualSpend     int64
	IsLocked        bool
	// StyleWeights is the percentage split across content styles used to
	// seed each day's style budgets, e.g. {"SALE": 60, "REVIEW": 40}.
	StyleWeights map[ContentStyle]float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyBudget is one day's envelope for an allocation. Invariant: the sum
// of planned amounts for a plan's date must not exceed the plan's
// remaining balance.
type DailyBudget struct {
	ID            int64
	AllocationID  int64
	Date          time.Time
	PlannedBudget int64
	ActualSpend   int64
	IsLocked      bool
	// Per-strategy processed flags; an optimizer run skips a day it has
	// already allocated.
	ContentAllocated bool
	GroupAllocated   bool
	StyleBudgets     map[ContentStyle]int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TierMultiplier maps a rolled-up ad group score onto the budget
// multiplier of its performance tier.
func TierMultiplier(score float64) float64 {
	switch {
	case score >= 1.5:
		return 1.3
	case score >= 1.0:
		return 1.0
	case score >= 0.5:
		return 0.7
	default:
		return 0.3
	}
}

// AllocationDecision is one computed (target, score, amount) tuple inside
// an optimization run.
type AllocationDecision struct {
	TargetKind string  `json:"target_kind"` // content or adgroup
	TargetID   int64   `json:"target_id"`
	ExternalID string  `json:"external_id,omitempty"`
	Style      string  `json:"style,omitempty"`
	Score      float64 `json:"score"`
	Amount     int64   `json:"amount"`
	Reason     string  `json:"reason,omitempty"`
}

// OptimizationLog is the append-only record of one allocation run. It is
// the durable record of intent; actuating it against the live platform is
// a separate, manual step.
type OptimizationLog struct {
	ID            int64
	PlanID        int64
	AllocationID  int64
	Strategy      AllocationStrategy
	StartedAt     time.Time
	CompletedAt   time.Time
	Status        string
	ChangesMade   int
	TotalAdjusted int64
	Decisions     []AllocationDecision
	ErrorMessage  string
}
