package domain

import "time"

// Campaign mirrors a platform campaign. Unique per (platform, account,
// external id). Budgets are stored in integer minor currency units.
// Campaigns are never deleted, only status-flagged.
type Campaign struct {
	ID                 int64
	Platform           Platform
	AccountID          int64
	ExternalCampaignID string
	Name               string
	Status             AdStatus
	Objective          string
	DailyBudget        int64
	LifetimeBudget     int64
	LastSyncedAt       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AdGroup mirrors a platform ad group. Unique per (platform, campaign,
// external id); belongs to exactly one Campaign.
type AdGroup struct {
	ID                int64
	Platform          Platform
	CampaignID        int64
	ExternalAdGroupID string
	Name              string
	Status            AdStatus
	OptimizationGoal  string
	DailyBudget       int64
	Category          AdCategory
	Style             ContentStyle
	// Score is the mean performance score of the contents advertised by
	// this group, rolled up by the scoring job.
	Score        float64
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ad mirrors a platform ad. Unique per (platform, ad group, external id).
// ContentID links back to the Content the ad promotes; nil until the
// linker resolves the external post id.
type Ad struct {
	ID           int64
	Platform     Platform
	AdGroupID    int64
	ContentID    *int64
	ExternalAdID string
	// ExternalPostID is the promoted post id as reported by the platform;
	// empty for ads that do not promote a post.
	ExternalPostID string
	Name           string
	Status         AdStatus
	Category       AdCategory
	// TotalSpend is a lifetime spend snapshot in minor currency units,
	// refreshed by the spend sync job.
	TotalSpend   int64
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
