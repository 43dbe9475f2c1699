package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data: one advertiser account with a small campaign
// hierarchy, linked contents with engagement counters, and an active
// budget plan with one allocation per strategy. Development only; every
// insert is keyed so reruns are harmless.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var accountID int64
	err := db.QueryRow(ctx, `
        INSERT INTO accounts (platform, external_account_id, name, status, sync_start_date)
        VALUES ('tiktok', 'demo-advertiser-1', 'Demo Advertiser', 'active', now() - interval '30 days')
        ON CONFLICT (platform, external_account_id) DO UPDATE SET updated_at = now()
        RETURNING id`).Scan(&accountID)
	if err != nil {
		return err
	}

	styles := []string{"SALE", "REVIEW", "BRANDING", "ECOM"}
	for i := 1; i <= 3; i++ {
		var campaignID int64
		err = db.QueryRow(ctx, `
            INSERT INTO campaigns (platform, account_id, external_campaign_id, name, status, objective, daily_budget)
            VALUES ('tiktok', $1, $2, $3, 'active', 'TRAFFIC', 10000000)
            ON CONFLICT (platform, external_campaign_id) DO UPDATE SET updated_at = now()
            RETURNING id`,
			accountID, fmt.Sprintf("demo-camp-%d", i), fmt.Sprintf("DEMO_ABX_CAMPAIGN_%d", i)).Scan(&campaignID)
		if err != nil {
			return err
		}

		for j := 1; j <= 4; j++ {
			style := styles[(i+j)%len(styles)]
			var groupID int64
			err = db.QueryRow(ctx, `
                INSERT INTO ad_groups (platform, campaign_id, external_adgroup_id, name, status, category, style, score)
                VALUES ('tiktok', $1, $2, $3, 'active', 'ABX', $4, $5)
                ON CONFLICT (platform, external_adgroup_id) DO UPDATE SET updated_at = now()
                RETURNING id`,
				campaignID, fmt.Sprintf("demo-group-%d-%d", i, j),
				fmt.Sprintf("DEMO_ABX_%s_GROUP_%d_%d", style, i, j), style, r.Float64()*2).Scan(&groupID)
			if err != nil {
				return err
			}

			postID := fmt.Sprintf("demo-post-%d-%d", i, j)
			reach := int64(r.Intn(200_000) + 5_000)
			var contentID int64
			err = db.QueryRow(ctx, `
                INSERT INTO contents (platform, external_post_id, url, caption, style, views, reach, likes, comments, shares, saves, video_duration, completion_rate)
                VALUES ('tiktok', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 30, 0.2)
                ON CONFLICT (platform, external_post_id) DO UPDATE SET updated_at = now()
                RETURNING id`,
				postID, fmt.Sprintf("https://example.com/video/%s", postID),
				fmt.Sprintf("Demo post %d-%d", i, j), style,
				reach*2, reach, reach/10, reach/60, reach/25, reach/40).Scan(&contentID)
			if err != nil {
				return err
			}

			_, err = db.Exec(ctx, `
                INSERT INTO ads (platform, ad_group_id, content_id, external_ad_id, external_post_id, name, status, category, total_spend)
                VALUES ('tiktok', $1, $2, $3, $4, $5, 'active', 'ABX', $6)
                ON CONFLICT (platform, external_ad_id) DO NOTHING`,
				groupID, contentID, fmt.Sprintf("demo-ad-%d-%d", i, j), postID,
				fmt.Sprintf("DEMO_ABX_AD_%d_%d", i, j), int64(r.Intn(500_000)))
			if err != nil {
				return err
			}
		}
	}

	// plans have no natural key, so look up by name before inserting
	var planID int64
	err = db.QueryRow(ctx, `SELECT id FROM budget_plans WHERE name = 'Demo monthly plan'`).Scan(&planID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = db.QueryRow(ctx, `
            INSERT INTO budget_plans (name, start_date, end_date, total_budget)
            VALUES ('Demo monthly plan', date_trunc('month', now())::date, (date_trunc('month', now()) + interval '1 month - 1 day')::date, 100000000)
            RETURNING id`).Scan(&planID)
	}
	if err != nil {
		return err
	}

	weights, _ := json.Marshal(map[string]float64{"SALE": 40, "REVIEW": 30, "BRANDING": 20, "ECOM": 10})
	for _, alloc := range []struct {
		name     string
		strategy string
		budget   int64
	}{
		{"Demo content allocation", "content", 60000000},
		{"Demo group allocation", "group", 40000000},
	} {
		_, err = db.Exec(ctx, `
            INSERT INTO budget_allocations (plan_id, name, strategy, allocated_budget, style_weights)
            SELECT $1, $2, $3, $4, $5
            WHERE NOT EXISTS (SELECT 1 FROM budget_allocations WHERE plan_id = $1 AND name = $2)`,
			planID, alloc.name, alloc.strategy, alloc.budget, weights)
		if err != nil {
			return err
		}
	}
	return nil
}
