package tiktok

import (
	"context"
	"encoding/json"
	"net/url"

	"boostx/internal/core/port"
)

// filtering encodes an entity filter into the platform's JSON filtering
// query parameter. idField names the platform's id-list key for the
// entity being fetched.
func filtering(f port.EntityFilter, idField string) (string, error) {
	m := map[string]any{}
	if f.Window != nil {
		m["creation_filter_start_time"] = f.Window.Start.Format("2006-01-02") + " 00:00:00"
		m["creation_filter_end_time"] = f.Window.End.Format("2006-01-02") + " 23:59:59"
	}
	if len(f.IDs) > 0 {
		m[idField] = f.IDs
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func listParams(accountID, filter string) url.Values {
	params := url.Values{}
	params.Set("advertiser_id", accountID)
	if filter != "{}" {
		params.Set("filtering", filter)
	}
	return params
}

// FetchCampaigns lists campaigns for one advertiser account.
func (c *Client) FetchCampaigns(ctx context.Context, accountID string, f port.EntityFilter) ([]port.CampaignRecord, error) {
	filter, err := filtering(f, "campaign_ids")
	if err != nil {
		return nil, err
	}
	raws, pageErr := c.getPaged(ctx, "/campaign/get/", listParams(accountID, filter))
	out := make([]port.CampaignRecord, 0, len(raws))
	for _, raw := range raws {
		var row campaignRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return out, err
		}
		out = append(out, row.toRecord())
	}
	return out, pageErr
}

// FetchAdGroups lists ad groups for one advertiser account.
func (c *Client) FetchAdGroups(ctx context.Context, accountID string, f port.EntityFilter) ([]port.AdGroupRecord, error) {
	filter, err := filtering(f, "adgroup_ids")
	if err != nil {
		return nil, err
	}
	raws, pageErr := c.getPaged(ctx, "/adgroup/get/", listParams(accountID, filter))
	out := make([]port.AdGroupRecord, 0, len(raws))
	for _, raw := range raws {
		var row adGroupRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return out, err
		}
		out = append(out, row.toRecord())
	}
	return out, pageErr
}

// FetchAds lists ads for one advertiser account. An explicit id filter is
// split into platform-sized batches; a batch error returns what previous
// batches accumulated.
func (c *Client) FetchAds(ctx context.Context, accountID string, f port.EntityFilter) ([]port.AdRecord, error) {
	if len(f.IDs) > idBatchSize {
		var out []port.AdRecord
		for _, batch := range chunk(f.IDs, idBatchSize) {
			recs, err := c.FetchAds(ctx, accountID, port.EntityFilter{IDs: batch})
			out = append(out, recs...)
			if err != nil {
				return out, err
			}
		}
		return out, nil
	}

	filter, err := filtering(f, "ad_ids")
	if err != nil {
		return nil, err
	}
	raws, pageErr := c.getPaged(ctx, "/ad/get/", listParams(accountID, filter))
	out := make([]port.AdRecord, 0, len(raws))
	for _, raw := range raws {
		var row adRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return out, err
		}
		out = append(out, row.toRecord())
	}
	return out, pageErr
}
