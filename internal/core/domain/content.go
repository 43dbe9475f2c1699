package domain

import "time"

// AdSummary is the slice of ad state attached to a Content's
// classification bucket by the linker. Spend is in minor currency units.
type AdSummary struct {
	ExternalAdID       string     `json:"ad_id"`
	ExternalAdGroupID  string     `json:"adgroup_id"`
	ExternalCampaignID string     `json:"campaign_id"`
	AdName             string     `json:"ad_name"`
	AdGroupName        string     `json:"adgroup_name,omitempty"`
	CampaignName       string     `json:"campaign_name,omitempty"`
	Status             AdStatus   `json:"status"`
	Category           AdCategory `json:"category"`
	TotalSpend         int64      `json:"total_spend"`
}

// Content is the unified content record one or more ads promote. Created
// by the linker when a post id is first observed; engagement counters come
// from the platform, score fields from the scorer, spend aggregates from
// the spend sync job. Soft-deleted only.
type Content struct {
	ID             int64
	Platform       Platform
	ExternalPostID string
	URL            string
	Caption        string
	Style          ContentStyle

	// Engagement counters.
	Views    int64
	Reach    int64
	Likes    int64
	Comments int64
	Shares   int64
	Saves    int64

	// VideoDuration in seconds; zero when unknown.
	VideoDuration float64
	// CompletionRate is the full-video-watched ratio in [0,1].
	CompletionRate float64
	// ClickThroughRate in [0,1]; used for the content bonus when the
	// video duration is unknown.
	ClickThroughRate float64

	// Ad aggregates maintained by the linker (counts, buckets) and the
	// spend job (TotalAdSpend).
	AdsCount     int
	ABXAdCount   int
	ACEAdCount   int
	ABXAds       []AdSummary
	ACEAds       []AdSummary
	TotalAdSpend int64

	// Score fields written by the scorer.
	Score          float64
	ScoreBreakdown *ScoreBreakdown

	ExpireDate *time.Time
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
