package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// ContentRepository implements port.ContentRepository using pgxpool. Ad
// summary buckets and score breakdowns are stored as jsonb.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository returns a new repository instance.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

const contentColumns = `
    id, platform, external_post_id, url, caption, style,
    views, reach, likes, comments, shares, saves,
    video_duration, completion_rate, click_through_rate,
    ads_count, abx_ad_count, ace_ad_count, abx_ads, ace_ads, total_ad_spend,
    score, score_breakdown, expire_date, deleted_at, created_at, updated_at`

func scanContent(row pgx.CollectableRow) (domain.Content, error) {
	var c domain.Content
	var abxRaw, aceRaw, bdRaw []byte
	err := row.Scan(
		&c.ID, &c.Platform, &c.ExternalPostID, &c.URL, &c.Caption, &c.Style,
		&c.Views, &c.Reach, &c.Likes, &c.Comments, &c.Shares, &c.Saves,
		&c.VideoDuration, &c.CompletionRate, &c.ClickThroughRate,
		&c.AdsCount, &c.ABXAdCount, &c.ACEAdCount, &abxRaw, &aceRaw, &c.TotalAdSpend,
		&c.Score, &bdRaw, &c.ExpireDate, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	if err = json.Unmarshal(abxRaw, &c.ABXAds); err != nil {
		return c, err
	}
	if err = json.Unmarshal(aceRaw, &c.ACEAds); err != nil {
		return c, err
	}
	if len(bdRaw) > 0 {
		var bd domain.ScoreBreakdown
		if err = json.Unmarshal(bdRaw, &bd); err != nil {
			return c, err
		}
		c.ScoreBreakdown = &bd
	}
	return c, nil
}

// FindByPostIDs returns known contents keyed by external post id.
func (r *ContentRepository) FindByPostIDs(ctx context.Context, platform domain.Platform, postIDs []string) (map[string]*domain.Content, error) {
	if len(postIDs) == 0 {
		return map[string]*domain.Content{}, nil
	}
	rows, err := r.pool.Query(ctx, `
        SELECT `+contentColumns+`
        FROM contents
        WHERE platform = $1 AND external_post_id = ANY($2)`, platform, postIDs)
	if err != nil {
		return nil, err
	}
	contents, err := pgx.CollectRows(rows, scanContent)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Content, len(contents))
	for i := range contents {
		out[contents[i].ExternalPostID] = &contents[i]
	}
	return out, nil
}

// CreateMinimal inserts a content row from an on-demand detail fetch. On
// conflict the engagement counters are refreshed, nothing else.
func (r *ContentRepository) CreateMinimal(ctx context.Context, platform domain.Platform, d port.PostDetail) (*domain.Content, error) {
	rows, err := r.pool.Query(ctx, `
        INSERT INTO contents (platform, external_post_id, url, caption, views, reach, likes, comments, shares, saves, video_duration, completion_rate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (platform, external_post_id) DO UPDATE SET
            views           = EXCLUDED.views,
            reach           = EXCLUDED.reach,
            likes           = EXCLUDED.likes,
            comments        = EXCLUDED.comments,
            shares          = EXCLUDED.shares,
            saves           = EXCLUDED.saves,
            video_duration  = EXCLUDED.video_duration,
            completion_rate = EXCLUDED.completion_rate,
            updated_at      = now()
        RETURNING `+contentColumns,
		platform, d.ExternalPostID, d.URL, d.Caption, d.Views, d.Reach, d.Likes, d.Comments, d.Shares, d.Saves, d.VideoDuration, d.CompletionRate)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectOneRow(rows, scanContent)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ReplaceAdAggregates rewrites the structural ad aggregates of a content.
func (r *ContentRepository) ReplaceAdAggregates(ctx context.Context, contentID int64, adsCount int, abx, ace []domain.AdSummary) error {
	if abx == nil {
		abx = []domain.AdSummary{}
	}
	if ace == nil {
		ace = []domain.AdSummary{}
	}
	abxRaw, err := json.Marshal(abx)
	if err != nil {
		return err
	}
	aceRaw, err := json.Marshal(ace)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
        UPDATE contents SET
            ads_count    = $2,
            abx_ad_count = $3,
            ace_ad_count = $4,
            abx_ads      = $5,
            ace_ads      = $6,
            updated_at   = now()
        WHERE id = $1`, contentID, adsCount, len(abx), len(ace), abxRaw, aceRaw)
	return err
}

// SetTotalAdSpend overwrites the aggregated ad spend of a content.
func (r *ContentRepository) SetTotalAdSpend(ctx context.Context, contentID int64, spend int64) error {
	_, err := r.pool.Exec(ctx, `
        UPDATE contents SET total_ad_spend = $2, updated_at = now()
        WHERE id = $1 AND total_ad_spend IS DISTINCT FROM $2`, contentID, spend)
	return err
}

// ContentIDsForAds maps external ad ids to linked content ids.
func (r *ContentRepository) ContentIDsForAds(ctx context.Context, platform domain.Platform, externalAdIDs []string) (map[string]int64, error) {
	if len(externalAdIDs) == 0 {
		return map[string]int64{}, nil
	}
	rows, err := r.pool.Query(ctx, `
        SELECT external_ad_id, content_id
        FROM ads
        WHERE platform = $1 AND external_ad_id = ANY($2) AND content_id IS NOT NULL`,
		platform, externalAdIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var adID string
		var contentID int64
		if err := rows.Scan(&adID, &contentID); err != nil {
			return nil, err
		}
		out[adID] = contentID
	}
	return out, rows.Err()
}

// AdSpendTotals sums ad spend snapshots per linked content.
func (r *ContentRepository) AdSpendTotals(ctx context.Context, contentIDs []int64) (map[int64]int64, error) {
	if len(contentIDs) == 0 {
		return map[int64]int64{}, nil
	}
	rows, err := r.pool.Query(ctx, `
        SELECT content_id, COALESCE(sum(total_spend), 0)
        FROM ads
        WHERE content_id = ANY($1)
        GROUP BY content_id`, contentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int64, len(contentIDs))
	for rows.Next() {
		var id, total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, err
		}
		out[id] = total
	}
	return out, rows.Err()
}

// ListScorable returns non-deleted contents for score recalculation.
func (r *ContentRepository) ListScorable(ctx context.Context, platform domain.Platform, limit int) ([]domain.Content, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+contentColumns+`
        FROM contents
        WHERE platform = $1 AND deleted_at IS NULL
        ORDER BY id
        LIMIT $2`, platform, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanContent)
}

// UpdateScore writes the score and its breakdown.
func (r *ContentRepository) UpdateScore(ctx context.Context, contentID int64, score float64, bd domain.ScoreBreakdown) error {
	raw, err := json.Marshal(bd)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
        UPDATE contents SET score = $2, score_breakdown = $3, updated_at = now()
        WHERE id = $1`, contentID, score, raw)
	return err
}

// TopByScore returns the highest-scored non-deleted contents.
func (r *ContentRepository) TopByScore(ctx context.Context, limit int) ([]domain.Content, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+contentColumns+`
        FROM contents
        WHERE deleted_at IS NULL AND score > 0
        ORDER BY score DESC, id
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanContent)
}
