// Package tiktok implements the advertising platform port against the
// TikTok Business API. The client is stateless: every call builds its
// request from scratch, so retries at the caller are always safe.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"boostx/internal/config/configs"
	"boostx/internal/core/port"
)

// idBatchSize is the platform's maximum for id-filtered list calls.
const idBatchSize = 100

// postBatchSize is the platform's maximum for the item detail endpoint.
const postBatchSize = 20

// Client talks to the TikTok Business API. It implements
// port.AdPlatform.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	maxPages int
	httpc    *http.Client
	log      *slog.Logger
}

// New builds a client from configuration.
func New(cfg configs.Platform, log *slog.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.AccessToken,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// apiError is a non-zero business code in an otherwise valid response.
type apiError struct {
	Code    int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("platform api error %d: %s", e.Code, e.Message)
}

// envelope is the common response wrapper: code 0 means success, data
// carries a list plus paging info on list endpoints.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List     []json.RawMessage `json:"list"`
		PageInfo struct {
			Page      int `json:"page"`
			TotalPage int `json:"total_page"`
		} `json:"page_info"`
	} `json:"data"`
}

// get performs one GET request and decodes the envelope.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Access-Token", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform http status %d for %s", resp.StatusCode, path)
	}
	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if env.Code != 0 {
		return nil, &apiError{Code: env.Code, Message: env.Message}
	}
	return &env, nil
}

// getPaged walks a list endpoint page by page until the platform reports
// the final page. The loop is bounded by maxPages; hitting the bound
// returns the rows accumulated so far with port.ErrPageLimit.
func (c *Client) getPaged(ctx context.Context, path string, params url.Values) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for page := 1; ; page++ {
		if page > c.maxPages {
			c.log.Warn("page ceiling reached", "path", path, "pages", c.maxPages)
			return out, port.ErrPageLimit
		}
		params.Set("page", strconv.Itoa(page))
		params.Set("page_size", strconv.Itoa(c.pageSize))

		env, err := c.get(ctx, path, params)
		if err != nil {
			return out, err
		}
		out = append(out, env.Data.List...)
		if page >= env.Data.PageInfo.TotalPage {
			return out, nil
		}
	}
}

// chunk splits ids into platform-sized batches.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
