package port

import "context"

// SyncSummary reports one ads-sync run across all accounts.
type SyncSummary struct {
	Accounts        int
	WindowsFetched  int
	AdsReconciled   int
	ContentsLinked  int
	AdsWithoutPost  int
	PostsUnresolved int
	Errors          int
}

// SpendSummary reports one spend-sync run.
type SpendSummary struct {
	Accounts        int
	AdsUpdated      int
	ContentsUpdated int
	Errors          int
}

// ScoreSummary reports one score recalculation run.
type ScoreSummary struct {
	Scored int
	Errors int
}

// OptimizeSummary reports one optimization run across all plans.
type OptimizeSummary struct {
	Plans       int
	Allocations int
	Decisions   int
	Skipped     int
	Errors      int
}

// SyncUseCase drives the connector → reconciler → linker pipeline and the
// spend refresh.
type SyncUseCase interface {
	SyncAds(ctx context.Context) (SyncSummary, error)
	SyncSpend(ctx context.Context) (SpendSummary, error)
}

// ScoreUseCase recalculates content scores and group rollups.
type ScoreUseCase interface {
	RecalculateScores(ctx context.Context) (ScoreSummary, error)
}

// OptimizeUseCase runs the budget strategies and the daily roll-forward.
type OptimizeUseCase interface {
	RunOptimization(ctx context.Context) (OptimizeSummary, error)
	RollForwardDailyBudgets(ctx context.Context) (int, error)
}
