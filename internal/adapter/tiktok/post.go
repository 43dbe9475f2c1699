package tiktok

import (
	"context"
	"encoding/json"
	"net/url"

	"boostx/internal/core/port"
)

// FetchPostDetails fetches item details for the given post ids. The
// second return value lists the ids the platform did not resolve, e.g.
// deleted or private posts; those are reported, not retried here.
func (c *Client) FetchPostDetails(ctx context.Context, postIDs []string) ([]port.PostDetail, []string, error) {
	details := make([]port.PostDetail, 0, len(postIDs))
	seen := make(map[string]bool, len(postIDs))

	for _, batch := range chunk(postIDs, postBatchSize) {
		ids, err := json.Marshal(batch)
		if err != nil {
			return details, missing(postIDs, seen), err
		}
		params := url.Values{}
		params.Set("item_ids", string(ids))

		env, err := c.get(ctx, "/item/details/", params)
		if err != nil {
			return details, missing(postIDs, seen), err
		}
		for _, raw := range env.Data.List {
			var row postRow
			if err := json.Unmarshal(raw, &row); err != nil {
				return details, missing(postIDs, seen), err
			}
			details = append(details, row.toDetail())
			seen[row.ItemID] = true
		}
	}
	return details, missing(postIDs, seen), nil
}

func missing(requested []string, seen map[string]bool) []string {
	var out []string
	for _, id := range requested {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
