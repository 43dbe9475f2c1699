package port

import (
	"context"
	"time"

	"boostx/internal/core/domain"
)

// AccountRepository reads advertiser accounts.
type AccountRepository interface {
	ListActive(ctx context.Context, platform domain.Platform) ([]domain.Account, error)
}

// ReconciledAd is the outcome of resolving one fetched ad record into the
// local Campaign → AdGroup → Ad hierarchy.
type ReconciledAd struct {
	Campaign domain.Campaign
	AdGroup  domain.AdGroup
	Ad       domain.Ad
}

// CampaignRepository persists the campaign hierarchy. Implementations
// must be idempotent keyed upserts: reconciling the same input twice
// yields identical stored state with no duplicate rows and no spurious
// updates to unchanged fields.
type CampaignRepository interface {
	// UpsertCampaigns inserts or refreshes fetched campaigns for one
	// account and returns how many rows changed.
	UpsertCampaigns(ctx context.Context, accountID int64, platform domain.Platform, recs []CampaignRecord) (int, error)

	// UpsertAdGroups inserts or refreshes fetched ad groups. Groups whose
	// campaign is not yet known locally are skipped and counted in the
	// second return value.
	UpsertAdGroups(ctx context.Context, platform domain.Platform, recs []AdGroupRecord) (changed, skipped int, err error)

	// ReconcileAd resolves or creates the owning Campaign, then the
	// owning AdGroup, then the Ad, inside one transaction, so a crash
	// mid-way never leaves an Ad pointing at an uncommitted parent.
	ReconcileAd(ctx context.Context, accountID int64, platform domain.Platform, rec AdRecord, category domain.AdCategory) (*ReconciledAd, error)

	// LinkAdContent attaches a resolved Content to an Ad.
	LinkAdContent(ctx context.Context, adID, contentID int64) error

	// ListAdExternalIDs returns the external ids of all ads under an
	// account, for targeted spend re-fetch.
	ListAdExternalIDs(ctx context.Context, accountID int64) ([]string, error)

	// ListAdSummariesByContent returns, for each given content, the full
	// set of ads currently linked to it, with group and campaign names
	// resolved. Used to rebuild content ad aggregates.
	ListAdSummariesByContent(ctx context.Context, contentIDs []int64) (map[int64][]domain.AdSummary, error)

	// UpdateAdSpend refreshes an ad's lifetime spend snapshot.
	UpdateAdSpend(ctx context.Context, platform domain.Platform, externalAdID string, spend int64) error

	// RollupGroupScores recomputes each ad group's score as the mean
	// score of the contents its ads promote.
	RollupGroupScores(ctx context.Context) error

	// ListGroupsForAllocation returns active, classified ad groups with
	// their style and rolled-up score, for the group-based strategy.
	ListGroupsForAllocation(ctx context.Context) ([]domain.AdGroup, error)
}

// ContentRepository persists unified content records. The content
// collaborator interface of the core: lookup by external post id, minimal
// creation, and ad-summary aggregation. Content is never hard-deleted.
type ContentRepository interface {
	// FindByPostIDs returns known contents keyed by external post id.
	FindByPostIDs(ctx context.Context, platform domain.Platform, postIDs []string) (map[string]*domain.Content, error)

	// CreateMinimal inserts a content row for a post observed through an
	// ad before the content itself was synced. Idempotent on
	// (platform, post id).
	CreateMinimal(ctx context.Context, platform domain.Platform, d PostDetail) (*domain.Content, error)

	// ReplaceAdAggregates rewrites the structural ad aggregates (counts
	// and classification buckets). It must not touch the content's
	// total-spend figure; the spend sync job owns that.
	ReplaceAdAggregates(ctx context.Context, contentID int64, adsCount int, abx, ace []domain.AdSummary) error

	// SetTotalAdSpend overwrites the aggregated ad spend.
	SetTotalAdSpend(ctx context.Context, contentID int64, spend int64) error

	// ContentIDsForAds maps external ad ids to linked content ids.
	ContentIDsForAds(ctx context.Context, platform domain.Platform, externalAdIDs []string) (map[string]int64, error)

	// AdSpendTotals sums the ad spend snapshots per linked content.
	AdSpendTotals(ctx context.Context, contentIDs []int64) (map[int64]int64, error)

	// ListScorable returns non-deleted contents for score recalculation.
	ListScorable(ctx context.Context, platform domain.Platform, limit int) ([]domain.Content, error)

	// UpdateScore writes the score and its breakdown.
	UpdateScore(ctx context.Context, contentID int64, score float64, bd domain.ScoreBreakdown) error

	// TopByScore returns the highest-scored non-deleted contents.
	TopByScore(ctx context.Context, limit int) ([]domain.Content, error)
}

// CursorRepository persists backfill cursors.
type CursorRepository interface {
	Get(ctx context.Context, accountID int64, platform domain.Platform) (*domain.SyncCursor, error)
	// Advance upserts the cursor to the given completed end date.
	Advance(ctx context.Context, accountID int64, platform domain.Platform, completed time.Time) error
}

// BudgetRepository persists plans, allocations, daily envelopes and the
// append-only optimization log.
type BudgetRepository interface {
	ActivePlans(ctx context.Context, onDate time.Time) ([]domain.BudgetPlan, error)
	Allocations(ctx context.Context, planID int64) ([]domain.BudgetAllocation, error)
	DailyBudget(ctx context.Context, allocationID int64, date time.Time) (*domain.DailyBudget, error)
	CreateDailyBudget(ctx context.Context, db *domain.DailyBudget) error

	// SpentBefore sums actual spend of an allocation's daily budgets
	// strictly before the given date.
	SpentBefore(ctx context.Context, allocationID int64, before time.Time) (int64, error)

	// PlannedOn sums planned amounts across a plan's allocations for one
	// date, used to hold the remaining-balance invariant.
	PlannedOn(ctx context.Context, planID int64, date time.Time) (int64, error)

	MarkAllocated(ctx context.Context, dailyBudgetID int64, strategy domain.AllocationStrategy) error

	// AppendLog inserts an optimization log row. Logs are never mutated
	// after insert.
	AppendLog(ctx context.Context, log *domain.OptimizationLog) error
}

// RunRepository is the task/run logging interface exposed to job bodies.
type RunRepository interface {
	Start(ctx context.Context, name, triggeredBy string) (string, error)
	Complete(ctx context.Context, runID string, success bool, message string, processed, succeeded, failed int) error

	// FailStale force-marks runs stuck in running longer than maxAge as
	// failed and returns how many were remediated.
	FailStale(ctx context.Context, maxAge time.Duration) (int, error)

	List(ctx context.Context, limit int) ([]domain.TaskRun, error)
	Get(ctx context.Context, runID string) (*domain.TaskRun, error)
}
