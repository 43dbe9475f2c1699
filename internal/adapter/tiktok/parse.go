package tiktok

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"boostx/internal/core/port"
)

// Wire rows mirror the platform payloads field for field. Conversion to
// port records happens here so no raw map ever leaves the adapter.

type campaignRow struct {
	CampaignID      string      `json:"campaign_id"`
	CampaignName    string      `json:"campaign_name"`
	ObjectiveType   string      `json:"objective_type"`
	OperationStatus string      `json:"operation_status"`
	BudgetMode      string      `json:"budget_mode"`
	Budget          json.Number `json:"budget"`
	CreateTime      string      `json:"create_time"`
}

type adGroupRow struct {
	AdGroupID        string      `json:"adgroup_id"`
	CampaignID       string      `json:"campaign_id"`
	AdGroupName      string      `json:"adgroup_name"`
	OperationStatus  string      `json:"operation_status"`
	OptimizationGoal string      `json:"optimization_goal"`
	Budget           json.Number `json:"budget"`
}

type adRow struct {
	AdID            string `json:"ad_id"`
	AdGroupID       string `json:"adgroup_id"`
	CampaignID      string `json:"campaign_id"`
	AdName          string `json:"ad_name"`
	AdGroupName     string `json:"adgroup_name"`
	CampaignName    string `json:"campaign_name"`
	OperationStatus string `json:"operation_status"`
	ItemID          string `json:"tiktok_item_id"`
}

type reportRow struct {
	Dimensions struct {
		AdID string `json:"ad_id"`
	} `json:"dimensions"`
	Metrics struct {
		Spend string `json:"spend"`
	} `json:"metrics"`
}

type postRow struct {
	ItemID          string  `json:"item_id"`
	ShareURL        string  `json:"share_url"`
	Caption         string  `json:"caption"`
	VideoViews      int64   `json:"video_views"`
	Reach           int64   `json:"reach"`
	Likes           int64   `json:"likes"`
	Comments        int64   `json:"comments"`
	Shares          int64   `json:"shares"`
	Favorites       int64   `json:"favorites"`
	VideoDuration   float64 `json:"video_duration"`
	FullWatchedRate float64 `json:"full_video_watched_rate"`
}

// minorUnits converts a decimal currency amount to integer minor units.
func minorUnits(n json.Number) int64 {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

// minorUnitsString converts a report metric, which arrives as a decimal
// string, to integer minor units.
func minorUnitsString(s string) int64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

const createTimeLayout = "2006-01-02 15:04:05"

func (r campaignRow) toRecord() port.CampaignRecord {
	rec := port.CampaignRecord{
		ExternalID: r.CampaignID,
		Name:       r.CampaignName,
		Objective:  r.ObjectiveType,
		Status:     r.OperationStatus,
	}
	switch r.BudgetMode {
	case "BUDGET_MODE_TOTAL":
		rec.LifetimeBudget = minorUnits(r.Budget)
	default:
		rec.DailyBudget = minorUnits(r.Budget)
	}
	if t, err := time.Parse(createTimeLayout, r.CreateTime); err == nil {
		rec.CreateTime = t
	}
	return rec
}

func (r adGroupRow) toRecord() port.AdGroupRecord {
	return port.AdGroupRecord{
		ExternalID:         r.AdGroupID,
		ExternalCampaignID: r.CampaignID,
		Name:               r.AdGroupName,
		Status:             r.OperationStatus,
		OptimizationGoal:   r.OptimizationGoal,
		DailyBudget:        minorUnits(r.Budget),
	}
}

func (r adRow) toRecord() port.AdRecord {
	return port.AdRecord{
		ExternalID:         r.AdID,
		ExternalAdGroupID:  r.AdGroupID,
		ExternalCampaignID: r.CampaignID,
		ExternalPostID:     r.ItemID,
		Name:               r.AdName,
		AdGroupName:        r.AdGroupName,
		CampaignName:       r.CampaignName,
		Status:             r.OperationStatus,
	}
}

func (r postRow) toDetail() port.PostDetail {
	return port.PostDetail{
		ExternalPostID: r.ItemID,
		URL:            r.ShareURL,
		Caption:        r.Caption,
		Views:          r.VideoViews,
		Reach:          r.Reach,
		Likes:          r.Likes,
		Comments:       r.Comments,
		Shares:         r.Shares,
		Saves:          r.Favorites,
		VideoDuration:  r.VideoDuration,
		CompletionRate: r.FullWatchedRate,
	}
}
