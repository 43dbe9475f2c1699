package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository using pgxpool.
// Writes are keyed upserts guarded with IS DISTINCT FROM so reconciling
// identical input leaves rows untouched.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// UpsertCampaigns inserts or refreshes fetched campaigns for one account.
func (r *CampaignRepository) UpsertCampaigns(ctx context.Context, accountID int64, platform domain.Platform, recs []port.CampaignRecord) (int, error) {
	changed := 0
	for _, rec := range recs {
		tag, err := r.pool.Exec(ctx, `
            INSERT INTO campaigns (platform, account_id, external_campaign_id, name, status, objective, daily_budget, lifetime_budget, last_synced_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
            ON CONFLICT (platform, external_campaign_id) DO UPDATE SET
                name            = EXCLUDED.name,
                status          = EXCLUDED.status,
                objective       = EXCLUDED.objective,
                daily_budget    = EXCLUDED.daily_budget,
                lifetime_budget = EXCLUDED.lifetime_budget,
                last_synced_at  = now(),
                updated_at      = now()
            WHERE (campaigns.name, campaigns.status, campaigns.objective, campaigns.daily_budget, campaigns.lifetime_budget)
                IS DISTINCT FROM
                  (EXCLUDED.name, EXCLUDED.status, EXCLUDED.objective, EXCLUDED.daily_budget, EXCLUDED.lifetime_budget)`,
			platform, accountID, rec.ExternalID, rec.Name, domain.MapOperationStatus(rec.Status), rec.Objective, rec.DailyBudget, rec.LifetimeBudget)
		if err != nil {
			return changed, err
		}
		changed += int(tag.RowsAffected())
	}
	return changed, nil
}

// UpsertAdGroups inserts or refreshes fetched ad groups. A group whose
// campaign has not been synced yet is skipped; the next full pass picks
// it up once the campaign row exists.
func (r *CampaignRepository) UpsertAdGroups(ctx context.Context, platform domain.Platform, recs []port.AdGroupRecord) (int, int, error) {
	changed, skipped := 0, 0
	for _, rec := range recs {
		var campaignID int64
		var campaignName string
		err := r.pool.QueryRow(ctx, `
            SELECT id, name FROM campaigns WHERE platform = $1 AND external_campaign_id = $2`,
			platform, rec.ExternalCampaignID).Scan(&campaignID, &campaignName)
		if errors.Is(err, pgx.ErrNoRows) {
			skipped++
			continue
		}
		if err != nil {
			return changed, skipped, err
		}

		category := domain.ClassifyAd("", rec.Name, campaignName)
		style := domain.ParseStyle(rec.Name)
		tag, err := r.pool.Exec(ctx, `
            INSERT INTO ad_groups (platform, campaign_id, external_adgroup_id, name, status, optimization_goal, daily_budget, category, style, last_synced_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
            ON CONFLICT (platform, external_adgroup_id) DO UPDATE SET
                campaign_id       = EXCLUDED.campaign_id,
                name              = EXCLUDED.name,
                status            = EXCLUDED.status,
                optimization_goal = EXCLUDED.optimization_goal,
                daily_budget      = EXCLUDED.daily_budget,
                category          = EXCLUDED.category,
                style             = EXCLUDED.style,
                last_synced_at    = now(),
                updated_at        = now()
            WHERE (ad_groups.campaign_id, ad_groups.name, ad_groups.status, ad_groups.optimization_goal, ad_groups.daily_budget, ad_groups.category, ad_groups.style)
                IS DISTINCT FROM
                  (EXCLUDED.campaign_id, EXCLUDED.name, EXCLUDED.status, EXCLUDED.optimization_goal, EXCLUDED.daily_budget, EXCLUDED.category, EXCLUDED.style)`,
			platform, campaignID, rec.ExternalID, rec.Name, domain.MapOperationStatus(rec.Status), rec.OptimizationGoal, rec.DailyBudget, category, style)
		if err != nil {
			return changed, skipped, err
		}
		changed += int(tag.RowsAffected())
	}
	return changed, skipped, nil
}

// ReconcileAd resolves the full hierarchy for one fetched ad in a single
// transaction. Missing parents are created as stubs from the names the ad
// record carries; a later campaign or ad-group sync fills them in.
func (r *CampaignRepository) ReconcileAd(ctx context.Context, accountID int64, platform domain.Platform, rec port.AdRecord, category domain.AdCategory) (*port.ReconciledAd, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var out port.ReconciledAd

	// campaign
	err = tx.QueryRow(ctx, `
        SELECT id, account_id, name, status FROM campaigns
        WHERE platform = $1 AND external_campaign_id = $2`,
		platform, rec.ExternalCampaignID).
		Scan(&out.Campaign.ID, &out.Campaign.AccountID, &out.Campaign.Name, &out.Campaign.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
            INSERT INTO campaigns (platform, account_id, external_campaign_id, name, last_synced_at)
            VALUES ($1, $2, $3, $4, now())
            RETURNING id, account_id, name, status`,
			platform, accountID, rec.ExternalCampaignID, rec.CampaignName).
			Scan(&out.Campaign.ID, &out.Campaign.AccountID, &out.Campaign.Name, &out.Campaign.Status)
	}
	if err != nil {
		return nil, err
	}
	out.Campaign.Platform = platform
	out.Campaign.ExternalCampaignID = rec.ExternalCampaignID

	// ad group
	err = tx.QueryRow(ctx, `
        SELECT id, campaign_id, name, status, category, style FROM ad_groups
        WHERE platform = $1 AND external_adgroup_id = $2`,
		platform, rec.ExternalAdGroupID).
		Scan(&out.AdGroup.ID, &out.AdGroup.CampaignID, &out.AdGroup.Name, &out.AdGroup.Status, &out.AdGroup.Category, &out.AdGroup.Style)
	if errors.Is(err, pgx.ErrNoRows) {
		groupCategory := domain.ClassifyAd("", rec.AdGroupName, rec.CampaignName)
		style := domain.ParseStyle(rec.AdGroupName)
		err = tx.QueryRow(ctx, `
            INSERT INTO ad_groups (platform, campaign_id, external_adgroup_id, name, category, style, last_synced_at)
            VALUES ($1, $2, $3, $4, $5, $6, now())
            RETURNING id, campaign_id, name, status, category, style`,
			platform, out.Campaign.ID, rec.ExternalAdGroupID, rec.AdGroupName, groupCategory, style).
			Scan(&out.AdGroup.ID, &out.AdGroup.CampaignID, &out.AdGroup.Name, &out.AdGroup.Status, &out.AdGroup.Category, &out.AdGroup.Style)
	}
	if err != nil {
		return nil, err
	}
	out.AdGroup.Platform = platform
	out.AdGroup.ExternalAdGroupID = rec.ExternalAdGroupID

	// ad
	status := domain.MapOperationStatus(rec.Status)
	err = tx.QueryRow(ctx, `
        SELECT id, content_id, total_spend FROM ads
        WHERE platform = $1 AND external_ad_id = $2`,
		platform, rec.ExternalID).
		Scan(&out.Ad.ID, &out.Ad.ContentID, &out.Ad.TotalSpend)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
            INSERT INTO ads (platform, ad_group_id, external_ad_id, external_post_id, name, status, category, last_synced_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, now())
            RETURNING id`,
			platform, out.AdGroup.ID, rec.ExternalID, rec.ExternalPostID, rec.Name, status, category).
			Scan(&out.Ad.ID)
	case err == nil:
		_, err = tx.Exec(ctx, `
            UPDATE ads SET
                ad_group_id      = $2,
                external_post_id = $3,
                name             = $4,
                status           = $5,
                category         = $6,
                last_synced_at   = now(),
                updated_at       = now()
            WHERE id = $1
              AND (ad_group_id, external_post_id, name, status, category)
                  IS DISTINCT FROM ($2, $3, $4, $5, $6::text)`,
			out.Ad.ID, out.AdGroup.ID, rec.ExternalPostID, rec.Name, status, category)
	}
	if err != nil {
		return nil, err
	}
	out.Ad.Platform = platform
	out.Ad.AdGroupID = out.AdGroup.ID
	out.Ad.ExternalAdID = rec.ExternalID
	out.Ad.ExternalPostID = rec.ExternalPostID
	out.Ad.Name = rec.Name
	out.Ad.Status = status
	out.Ad.Category = category
	return &out, nil
}

// LinkAdContent attaches a resolved content to an ad.
func (r *CampaignRepository) LinkAdContent(ctx context.Context, adID, contentID int64) error {
	_, err := r.pool.Exec(ctx, `
        UPDATE ads SET content_id = $2, updated_at = now()
        WHERE id = $1 AND content_id IS DISTINCT FROM $2`, adID, contentID)
	return err
}

// ListAdExternalIDs returns external ad ids for all ads under an account.
func (r *CampaignRepository) ListAdExternalIDs(ctx context.Context, accountID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT a.external_ad_id
        FROM ads a
        JOIN ad_groups g ON g.id = a.ad_group_id
        JOIN campaigns c ON c.id = g.campaign_id
        WHERE c.account_id = $1
        ORDER BY a.id`, accountID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
}

// ListAdSummariesByContent returns the linked ads per content with group
// and campaign names resolved.
func (r *CampaignRepository) ListAdSummariesByContent(ctx context.Context, contentIDs []int64) (map[int64][]domain.AdSummary, error) {
	if len(contentIDs) == 0 {
		return map[int64][]domain.AdSummary{}, nil
	}
	rows, err := r.pool.Query(ctx, `
        SELECT a.content_id, a.external_ad_id, g.external_adgroup_id, c.external_campaign_id,
               a.name, g.name, c.name, a.status, a.category, a.total_spend
        FROM ads a
        JOIN ad_groups g ON g.id = a.ad_group_id
        JOIN campaigns c ON c.id = g.campaign_id
        WHERE a.content_id = ANY($1)
        ORDER BY a.id`, contentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]domain.AdSummary, len(contentIDs))
	for rows.Next() {
		var contentID int64
		var s domain.AdSummary
		if err := rows.Scan(&contentID, &s.ExternalAdID, &s.ExternalAdGroupID, &s.ExternalCampaignID,
			&s.AdName, &s.AdGroupName, &s.CampaignName, &s.Status, &s.Category, &s.TotalSpend); err != nil {
			return nil, err
		}
		out[contentID] = append(out[contentID], s)
	}
	return out, rows.Err()
}

// UpdateAdSpend refreshes an ad's lifetime spend snapshot.
func (r *CampaignRepository) UpdateAdSpend(ctx context.Context, platform domain.Platform, externalAdID string, spend int64) error {
	_, err := r.pool.Exec(ctx, `
        UPDATE ads SET total_spend = $3, last_synced_at = now(), updated_at = now()
        WHERE platform = $1 AND external_ad_id = $2 AND total_spend IS DISTINCT FROM $3`,
		platform, externalAdID, spend)
	return err
}

// RollupGroupScores refreshes each ad group's score from the mean score
// of the contents its ads promote. Groups with no linked content keep
// their previous score.
func (r *CampaignRepository) RollupGroupScores(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
        UPDATE ad_groups g
        SET score = s.avg_score, updated_at = now()
        FROM (
            SELECT a.ad_group_id, avg(c.score) AS avg_score
            FROM ads a
            JOIN contents c ON c.id = a.content_id
            WHERE c.deleted_at IS NULL
            GROUP BY a.ad_group_id
        ) s
        WHERE s.ad_group_id = g.id AND g.score IS DISTINCT FROM s.avg_score`)
	return err
}

// ListGroupsForAllocation returns active managed ad groups ordered by
// score. GENERAL groups are outside the naming convention and never
// receive allocations.
func (r *CampaignRepository) ListGroupsForAllocation(ctx context.Context) ([]domain.AdGroup, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, platform, campaign_id, external_adgroup_id, name, status, optimization_goal, daily_budget, category, style, score, last_synced_at, created_at, updated_at
        FROM ad_groups
        WHERE status = 'active' AND category <> 'GENERAL'
        ORDER BY score DESC, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AdGroup, error) {
		var g domain.AdGroup
		err := row.Scan(&g.ID, &g.Platform, &g.CampaignID, &g.ExternalAdGroupID, &g.Name, &g.Status, &g.OptimizationGoal, &g.DailyBudget, &g.Category, &g.Style, &g.Score, &g.LastSyncedAt, &g.CreatedAt, &g.UpdatedAt)
		return g, err
	})
}
