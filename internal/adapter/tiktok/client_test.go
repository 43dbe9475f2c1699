package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostx/internal/config/configs"
	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

func windowJune(t *testing.T) domain.DateWindow {
	t.Helper()
	return domain.DateWindow{
		Start: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC),
	}
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(configs.Platform{
		BaseURL:     srv.URL,
		AccessToken: "test-token",
		PageSize:    2,
		MaxPages:    5,
		Timeout:     5 * time.Second,
	}, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func listPage(rows []any, page, totalPage int) string {
	raw, _ := json.Marshal(map[string]any{
		"code":    0,
		"message": "OK",
		"data": map[string]any{
			"list":      rows,
			"page_info": map[string]int{"page": page, "total_page": totalPage},
		},
	})
	return string(raw)
}

func TestFetchCampaigns_Pagination(t *testing.T) {
	var tokens []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/campaign/get/", r.URL.Path)
		tokens = append(tokens, r.Header.Get("Access-Token"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		row := map[string]any{
			"campaign_id":      fmt.Sprintf("camp-%d", page),
			"campaign_name":    fmt.Sprintf("ABX_CAMPAIGN_%d", page),
			"objective_type":   "TRAFFIC",
			"operation_status": "ENABLE",
			"budget_mode":      "BUDGET_MODE_DAY",
			"budget":           100.50,
			"create_time":      "2025-06-01 10:00:00",
		}
		fmt.Fprint(w, listPage([]any{row}, page, 3))
	}))

	recs, err := c.FetchCampaigns(context.Background(), "adv-1", port.EntityFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"test-token", "test-token", "test-token"}, tokens)
	assert.Equal(t, "camp-1", recs[0].ExternalID)
	assert.Equal(t, int64(10050), recs[0].DailyBudget)
	assert.Zero(t, recs[0].LifetimeBudget)
	assert.Equal(t, 2025, recs[0].CreateTime.Year())
}

func TestFetchCampaigns_PageCeiling(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		// total_page never reachable within maxPages
		fmt.Fprint(w, listPage([]any{map[string]any{"campaign_id": fmt.Sprintf("c%d", page)}}, page, 100))
	}))

	recs, err := c.FetchCampaigns(context.Background(), "adv-1", port.EntityFilter{})
	require.ErrorIs(t, err, port.ErrPageLimit)
	// partial results still come back
	assert.Len(t, recs, 5)
}

func TestFetchAdGroups_APIError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":40105,"message":"Access token expired"}`)
	}))

	_, err := c.FetchAdGroups(context.Background(), "adv-1", port.EntityFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40105")
	assert.Contains(t, err.Error(), "Access token expired")
}

func TestFetchAds_WindowFilter(t *testing.T) {
	var filters []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters = append(filters, r.URL.Query().Get("filtering"))
		fmt.Fprint(w, listPage(nil, 1, 1))
	}))

	win := windowJune(t)
	_, err := c.FetchAds(context.Background(), "adv-1", port.EntityFilter{Window: &win})
	require.NoError(t, err)
	require.Len(t, filters, 1)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(filters[0]), &decoded))
	assert.Equal(t, "2025-06-02 00:00:00", decoded["creation_filter_start_time"])
	assert.Equal(t, "2025-06-08 23:59:59", decoded["creation_filter_end_time"])
}

func TestFetchAds_IDBatching(t *testing.T) {
	var batches [][]string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var decoded struct {
			AdIDs []string `json:"ad_ids"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filtering")), &decoded))
		batches = append(batches, decoded.AdIDs)

		rows := make([]any, 0, len(decoded.AdIDs))
		for _, id := range decoded.AdIDs {
			rows = append(rows, map[string]any{"ad_id": id, "operation_status": "ENABLE"})
		}
		fmt.Fprint(w, listPage(rows, 1, 1))
	}))

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("ad-%03d", i)
	}
	recs, err := c.FetchAds(context.Background(), "adv-1", port.EntityFilter{IDs: ids})
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 50)
	assert.Len(t, recs, 150)
}

func TestFetchSpend(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "/report/integrated/get/", r.URL.Path)
		assert.Equal(t, "AUCTION_AD", q.Get("data_level"))
		assert.Equal(t, "true", q.Get("query_lifetime"))

		rows := []any{
			map[string]any{"dimensions": map[string]string{"ad_id": "ad-1"}, "metrics": map[string]string{"spend": "12.34"}},
			map[string]any{"dimensions": map[string]string{"ad_id": "ad-2"}, "metrics": map[string]string{"spend": "0.00"}},
		}
		fmt.Fprint(w, listPage(rows, 1, 1))
	}))

	spend, err := c.FetchSpend(context.Background(), "adv-1", []string{"ad-1", "ad-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ad-1": 1234, "ad-2": 0}, spend)
}

func TestFetchPostDetails_ReportsMissing(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/item/details/", r.URL.Path)
		rows := []any{map[string]any{
			"item_id":                 "post-1",
			"share_url":               "https://example.com/post-1",
			"video_views":             1000,
			"reach":                   800,
			"likes":                   50,
			"full_video_watched_rate": 0.4,
		}}
		fmt.Fprint(w, listPage(rows, 1, 1))
	}))

	details, failed, err := c.FetchPostDetails(context.Background(), []string{"post-1", "post-gone"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, int64(800), details[0].Reach)
	assert.InDelta(t, 0.4, details[0].CompletionRate, 1e-9)
	assert.Equal(t, []string{"post-gone"}, failed)
}
