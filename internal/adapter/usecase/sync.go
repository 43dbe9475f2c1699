package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boostx/internal/config/configs"
	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// SyncUseCase drives the fetch, reconcile and link pipeline per account
// and the periodic spend refresh. An error on one account is isolated:
// it is counted and logged, the remaining accounts still run, and the
// failed account's cursor stays put so the window is retried next run.
type SyncUseCase struct {
	platform  port.AdPlatform
	accounts  port.AccountRepository
	campaigns port.CampaignRepository
	contents  port.ContentRepository
	cursors   port.CursorRepository
	runs      port.RunRepository

	cfg configs.Sync
	log *slog.Logger
	now func() time.Time
}

// NewSyncUseCase creates the sync usecase.
func NewSyncUseCase(
	platform port.AdPlatform,
	accounts port.AccountRepository,
	campaigns port.CampaignRepository,
	contents port.ContentRepository,
	cursors port.CursorRepository,
	runs port.RunRepository,
	cfg configs.Sync,
	log *slog.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		platform:  platform,
		accounts:  accounts,
		campaigns: campaigns,
		contents:  contents,
		cursors:   cursors,
		runs:      runs,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// SyncAds processes one backfill window per active account: fetch the
// window's campaigns, ad groups and ads, reconcile them, link promoted
// posts to contents, then advance the cursor. The cursor advances on an
// empty window too, so "no data" days are never refetched.
func (u *SyncUseCase) SyncAds(ctx context.Context) (port.SyncSummary, error) {
	var sum port.SyncSummary
	runID, err := u.runs.Start(ctx, "ads_sync", port.TriggerFrom(ctx))
	if err != nil {
		return sum, err
	}

	accounts, err := u.accounts.ListActive(ctx, domain.PlatformTikTok)
	if err != nil {
		_ = u.runs.Complete(ctx, runID, false, err.Error(), 0, 0, 0)
		return sum, err
	}
	sum.Accounts = len(accounts)

	for _, acct := range accounts {
		if err := u.syncAccountWindow(ctx, acct, &sum); err != nil {
			sum.Errors++
			u.log.Error("account sync failed", "account", acct.ExternalAccountID, "error", err)
		}
	}

	msg := fmt.Sprintf("windows=%d reconciled=%d linked=%d unresolved=%d",
		sum.WindowsFetched, sum.AdsReconciled, sum.ContentsLinked, sum.PostsUnresolved)
	_ = u.runs.Complete(ctx, runID, sum.Errors == 0, msg, sum.AdsReconciled, sum.ContentsLinked, sum.Errors)
	return sum, nil
}

func (u *SyncUseCase) syncAccountWindow(ctx context.Context, acct domain.Account, sum *port.SyncSummary) error {
	cursor, err := u.cursors.Get(ctx, acct.ID, acct.Platform)
	if err != nil {
		return err
	}
	win, ok := domain.NextWindow(cursor, acct, u.now(), u.cfg.MaxChunkDays, u.cfg.DefaultLookbackDays)
	if !ok {
		return nil
	}
	sum.WindowsFetched++
	filter := port.EntityFilter{Window: &win}

	camps, err := u.platform.FetchCampaigns(ctx, acct.ExternalAccountID, filter)
	if err != nil {
		return fmt.Errorf("fetch campaigns: %w", err)
	}
	if _, err = u.campaigns.UpsertCampaigns(ctx, acct.ID, acct.Platform, camps); err != nil {
		return fmt.Errorf("upsert campaigns: %w", err)
	}

	groups, err := u.platform.FetchAdGroups(ctx, acct.ExternalAccountID, filter)
	if err != nil {
		return fmt.Errorf("fetch ad groups: %w", err)
	}
	if _, _, err = u.campaigns.UpsertAdGroups(ctx, acct.Platform, groups); err != nil {
		return fmt.Errorf("upsert ad groups: %w", err)
	}

	ads, err := u.platform.FetchAds(ctx, acct.ExternalAccountID, filter)
	if err != nil {
		return fmt.Errorf("fetch ads: %w", err)
	}

	reconciled := make(map[string]*port.ReconciledAd, len(ads))
	for _, rec := range ads {
		category := domain.ClassifyAd(rec.Name, rec.AdGroupName, rec.CampaignName)
		rc, err := u.campaigns.ReconcileAd(ctx, acct.ID, acct.Platform, rec, category)
		if err != nil {
			return fmt.Errorf("reconcile ad %s: %w", rec.ExternalID, err)
		}
		reconciled[rec.ExternalID] = rc
		sum.AdsReconciled++
	}

	if err = u.linkContents(ctx, acct.Platform, ads, reconciled, sum); err != nil {
		return fmt.Errorf("link contents: %w", err)
	}

	return u.cursors.Advance(ctx, acct.ID, acct.Platform, win.End)
}

// linkContents resolves each ad's promoted post to a content row,
// fetching missing posts on demand, then rebuilds the structural ad
// aggregates of every touched content.
func (u *SyncUseCase) linkContents(ctx context.Context, platform domain.Platform, ads []port.AdRecord, reconciled map[string]*port.ReconciledAd, sum *port.SyncSummary) error {
	var postIDs []string
	seen := map[string]bool{}
	for _, rec := range ads {
		if rec.ExternalPostID == "" {
			sum.AdsWithoutPost++
			continue
		}
		if !seen[rec.ExternalPostID] {
			seen[rec.ExternalPostID] = true
			postIDs = append(postIDs, rec.ExternalPostID)
		}
	}
	if len(postIDs) == 0 {
		return nil
	}

	known, err := u.contents.FindByPostIDs(ctx, platform, postIDs)
	if err != nil {
		return err
	}

	var missing []string
	for _, id := range postIDs {
		if known[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		unresolved, err := u.ensureContents(ctx, platform, missing, known)
		if err != nil {
			return err
		}
		sum.PostsUnresolved += unresolved
	}

	touched := map[int64]bool{}
	for _, rec := range ads {
		c := known[rec.ExternalPostID]
		if rec.ExternalPostID == "" || c == nil {
			continue
		}
		rc := reconciled[rec.ExternalID]
		if rc == nil {
			continue
		}
		if err := u.campaigns.LinkAdContent(ctx, rc.Ad.ID, c.ID); err != nil {
			return err
		}
		touched[c.ID] = true
		sum.ContentsLinked++
	}

	return u.refreshAggregates(ctx, touched)
}

// ensureContents fetches details for unknown post ids and creates content
// rows. A post the platform fails to resolve is retried once within the
// same run; still-unresolved ids are counted and left for the next run.
func (u *SyncUseCase) ensureContents(ctx context.Context, platform domain.Platform, missing []string, known map[string]*domain.Content) (int, error) {
	details, failed, err := u.platform.FetchPostDetails(ctx, missing)
	if err != nil {
		return 0, err
	}
	if len(failed) > 0 {
		retried, stillFailed, err := u.platform.FetchPostDetails(ctx, failed)
		if err != nil {
			return 0, err
		}
		details = append(details, retried...)
		failed = stillFailed
	}

	for _, d := range details {
		c, err := u.contents.CreateMinimal(ctx, platform, d)
		if err != nil {
			return 0, err
		}
		known[d.ExternalPostID] = c
	}
	if len(failed) > 0 {
		u.log.Warn("posts unresolved after retry", "count", len(failed))
	}
	return len(failed), nil
}

// refreshAggregates rebuilds ad counts and classification buckets for the
// touched contents from the full linked ad set in storage, not just the
// ads seen in this window.
func (u *SyncUseCase) refreshAggregates(ctx context.Context, touched map[int64]bool) error {
	if len(touched) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	byContent, err := u.campaigns.ListAdSummariesByContent(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		summaries := byContent[id]
		var abx, ace []domain.AdSummary
		for _, s := range summaries {
			switch s.Category {
			case domain.CategoryABX:
				abx = append(abx, s)
			case domain.CategoryACE:
				ace = append(ace, s)
			}
		}
		if err := u.contents.ReplaceAdAggregates(ctx, id, len(summaries), abx, ace); err != nil {
			return err
		}
	}
	return nil
}

// SyncSpend refreshes lifetime spend snapshots for every known ad and
// recomputes each linked content's aggregated ad spend.
func (u *SyncUseCase) SyncSpend(ctx context.Context) (port.SpendSummary, error) {
	var sum port.SpendSummary
	runID, err := u.runs.Start(ctx, "spend_sync", port.TriggerFrom(ctx))
	if err != nil {
		return sum, err
	}

	accounts, err := u.accounts.ListActive(ctx, domain.PlatformTikTok)
	if err != nil {
		_ = u.runs.Complete(ctx, runID, false, err.Error(), 0, 0, 0)
		return sum, err
	}
	sum.Accounts = len(accounts)

	for _, acct := range accounts {
		if err := u.syncAccountSpend(ctx, acct, &sum); err != nil {
			sum.Errors++
			u.log.Error("spend sync failed", "account", acct.ExternalAccountID, "error", err)
		}
	}

	msg := fmt.Sprintf("ads=%d contents=%d", sum.AdsUpdated, sum.ContentsUpdated)
	_ = u.runs.Complete(ctx, runID, sum.Errors == 0, msg, sum.AdsUpdated, sum.ContentsUpdated, sum.Errors)
	return sum, nil
}

func (u *SyncUseCase) syncAccountSpend(ctx context.Context, acct domain.Account, sum *port.SpendSummary) error {
	adIDs, err := u.campaigns.ListAdExternalIDs(ctx, acct.ID)
	if err != nil {
		return err
	}
	if len(adIDs) == 0 {
		return nil
	}

	spend, err := u.platform.FetchSpend(ctx, acct.ExternalAccountID, adIDs)
	if err != nil {
		return err
	}
	for adID, amount := range spend {
		if err := u.campaigns.UpdateAdSpend(ctx, acct.Platform, adID, amount); err != nil {
			return err
		}
		sum.AdsUpdated++
	}

	linked, err := u.contents.ContentIDsForAds(ctx, acct.Platform, adIDs)
	if err != nil {
		return err
	}
	contentIDs := make([]int64, 0, len(linked))
	seen := map[int64]bool{}
	for _, id := range linked {
		if !seen[id] {
			seen[id] = true
			contentIDs = append(contentIDs, id)
		}
	}
	totals, err := u.contents.AdSpendTotals(ctx, contentIDs)
	if err != nil {
		return err
	}
	for contentID, total := range totals {
		if err := u.contents.SetTotalAdSpend(ctx, contentID, total); err != nil {
			return err
		}
		sum.ContentsUpdated++
	}
	return nil
}
