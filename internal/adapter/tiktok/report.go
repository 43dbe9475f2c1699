package tiktok

import (
	"context"
	"encoding/json"
	"net/url"
)

// FetchSpend returns lifetime spend per ad in minor currency units. Ads
// the report omits simply have no row in the result; the caller treats
// them as zero spend.
func (c *Client) FetchSpend(ctx context.Context, accountID string, adIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(adIDs))
	for _, batch := range chunk(adIDs, idBatchSize) {
		filter, err := json.Marshal(map[string]any{"ad_ids": batch})
		if err != nil {
			return out, err
		}
		params := url.Values{}
		params.Set("advertiser_id", accountID)
		params.Set("report_type", "BASIC")
		params.Set("data_level", "AUCTION_AD")
		params.Set("dimensions", `["ad_id"]`)
		params.Set("metrics", `["spend"]`)
		params.Set("query_lifetime", "true")
		params.Set("filtering", string(filter))

		raws, pageErr := c.getPaged(ctx, "/report/integrated/get/", params)
		for _, raw := range raws {
			var row reportRow
			if err := json.Unmarshal(raw, &row); err != nil {
				return out, err
			}
			out[row.Dimensions.AdID] = minorUnitsString(row.Metrics.Spend)
		}
		if pageErr != nil {
			return out, pageErr
		}
	}
	return out, nil
}
