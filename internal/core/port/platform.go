package port

import (
	"context"
	"errors"
	"time"

	"boostx/internal/core/domain"
)

// ErrPageLimit is returned when a page loop hits the configured ceiling
// before the platform reported the final page. Accumulated results are
// still returned alongside it.
var ErrPageLimit = errors.New("page ceiling reached before final page")

// EntityFilter narrows a list fetch. Window filters by creation date; IDs
// requests an explicit id set (targeted re-fetch, far cheaper than a full
// scan). At most one of the two is set.
type EntityFilter struct {
	Window *domain.DateWindow
	IDs    []string
}

// CampaignRecord is the parsed shape of one platform campaign row.
type CampaignRecord struct {
	ExternalID     string
	Name           string
	Objective      string
	Status         string
	DailyBudget    int64
	LifetimeBudget int64
	CreateTime     time.Time
}

// AdGroupRecord is the parsed shape of one platform ad-group row.
type AdGroupRecord struct {
	ExternalID         string
	ExternalCampaignID string
	Name               string
	Status             string
	OptimizationGoal   string
	DailyBudget        int64
}

// AdRecord is the parsed shape of one platform ad row. ExternalPostID is
// the embedded post identifier the linker resolves to a Content; empty
// when the ad does not promote a post.
type AdRecord struct {
	ExternalID         string
	ExternalAdGroupID  string
	ExternalCampaignID string
	ExternalPostID     string
	Name               string
	AdGroupName        string
	CampaignName       string
	Status             string
}

// PostDetail is the parsed shape of an on-demand post detail fetch, used
// to create Content rows for post ids not yet known locally.
type PostDetail struct {
	ExternalPostID string
	URL            string
	Caption        string
	Views          int64
	Reach          int64
	Likes          int64
	Comments       int64
	Shares         int64
	Saves          int64
	VideoDuration  float64
	CompletionRate float64
}

// AdPlatform is the outbound port to one external advertising platform.
// All fetches are paged internally and bounded by a page ceiling and
// per-call timeout. A transport or API error aborts the current page loop
// and returns the records accumulated so far together with the error; an
// empty result set is a valid terminal state, never an error.
type AdPlatform interface {
	FetchCampaigns(ctx context.Context, accountID string, f EntityFilter) ([]CampaignRecord, error)
	FetchAdGroups(ctx context.Context, accountID string, f EntityFilter) ([]AdGroupRecord, error)
	FetchAds(ctx context.Context, accountID string, f EntityFilter) ([]AdRecord, error)

	// FetchSpend returns lifetime spend in minor currency units keyed by
	// external ad id, batched at the platform's per-call maximum.
	FetchSpend(ctx context.Context, accountID string, adIDs []string) (map[string]int64, error)

	// FetchPostDetails fetches details for the given post ids and returns
	// the resolved details plus the ids that could not be resolved.
	FetchPostDetails(ctx context.Context, postIDs []string) ([]PostDetail, []string, error)
}
