package usecase

import (
	"context"
	"fmt"
	"time"

	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// Stateful in-memory fakes for the ports. They mimic the keyed-upsert
// semantics of the real repositories closely enough for pipeline tests.

type fakePlatform struct {
	campaigns []port.CampaignRecord
	adGroups  []port.AdGroupRecord
	ads       []port.AdRecord
	spend     map[string]int64
	posts     map[string]port.PostDetail
	// failPosts counts how many more detail fetches should miss each id
	failPosts map[string]int

	fetchAdsErr   error
	fetchCalls    int
	detailCalls   int
	spendAccounts []string
}

func (p *fakePlatform) FetchCampaigns(_ context.Context, _ string, _ port.EntityFilter) ([]port.CampaignRecord, error) {
	p.fetchCalls++
	return p.campaigns, nil
}

func (p *fakePlatform) FetchAdGroups(_ context.Context, _ string, _ port.EntityFilter) ([]port.AdGroupRecord, error) {
	return p.adGroups, nil
}

func (p *fakePlatform) FetchAds(_ context.Context, _ string, _ port.EntityFilter) ([]port.AdRecord, error) {
	if p.fetchAdsErr != nil {
		return nil, p.fetchAdsErr
	}
	return p.ads, nil
}

func (p *fakePlatform) FetchSpend(_ context.Context, accountID string, _ []string) (map[string]int64, error) {
	p.spendAccounts = append(p.spendAccounts, accountID)
	return p.spend, nil
}

func (p *fakePlatform) FetchPostDetails(_ context.Context, postIDs []string) ([]port.PostDetail, []string, error) {
	p.detailCalls++
	var details []port.PostDetail
	var failed []string
	for _, id := range postIDs {
		if p.failPosts[id] > 0 {
			p.failPosts[id]--
			failed = append(failed, id)
			continue
		}
		if d, ok := p.posts[id]; ok {
			details = append(details, d)
		} else {
			failed = append(failed, id)
		}
	}
	return details, failed, nil
}

type fakeAccounts struct {
	accounts []domain.Account
}

func (r *fakeAccounts) ListActive(_ context.Context, _ domain.Platform) ([]domain.Account, error) {
	return r.accounts, nil
}

type fakeCampaigns struct {
	nextID      int64
	reconciled  map[string]*port.ReconciledAd
	linked      map[int64]int64 // ad id -> content id
	adSpend     map[string]int64
	adIDs       []string
	summaries   map[int64][]domain.AdSummary
	groups      []domain.AdGroup
	rolledUp    bool
	upsertCamps int
	upsertGrps  int
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{
		reconciled: map[string]*port.ReconciledAd{},
		linked:     map[int64]int64{},
		adSpend:    map[string]int64{},
		summaries:  map[int64][]domain.AdSummary{},
	}
}

func (r *fakeCampaigns) UpsertCampaigns(_ context.Context, _ int64, _ domain.Platform, recs []port.CampaignRecord) (int, error) {
	r.upsertCamps += len(recs)
	return len(recs), nil
}

func (r *fakeCampaigns) UpsertAdGroups(_ context.Context, _ domain.Platform, recs []port.AdGroupRecord) (int, int, error) {
	r.upsertGrps += len(recs)
	return len(recs), 0, nil
}

func (r *fakeCampaigns) ReconcileAd(_ context.Context, _ int64, platform domain.Platform, rec port.AdRecord, category domain.AdCategory) (*port.ReconciledAd, error) {
	if rc, ok := r.reconciled[rec.ExternalID]; ok {
		return rc, nil
	}
	r.nextID++
	rc := &port.ReconciledAd{
		Ad: domain.Ad{
			ID:             r.nextID,
			Platform:       platform,
			ExternalAdID:   rec.ExternalID,
			ExternalPostID: rec.ExternalPostID,
			Name:           rec.Name,
			Category:       category,
		},
	}
	r.reconciled[rec.ExternalID] = rc
	return rc, nil
}

func (r *fakeCampaigns) LinkAdContent(_ context.Context, adID, contentID int64) error {
	r.linked[adID] = contentID
	return nil
}

func (r *fakeCampaigns) ListAdExternalIDs(_ context.Context, _ int64) ([]string, error) {
	return r.adIDs, nil
}

func (r *fakeCampaigns) ListAdSummariesByContent(_ context.Context, contentIDs []int64) (map[int64][]domain.AdSummary, error) {
	out := map[int64][]domain.AdSummary{}
	for _, id := range contentIDs {
		out[id] = r.summaries[id]
	}
	return out, nil
}

func (r *fakeCampaigns) UpdateAdSpend(_ context.Context, _ domain.Platform, externalAdID string, spend int64) error {
	r.adSpend[externalAdID] = spend
	return nil
}

func (r *fakeCampaigns) RollupGroupScores(_ context.Context) error {
	r.rolledUp = true
	return nil
}

func (r *fakeCampaigns) ListGroupsForAllocation(_ context.Context) ([]domain.AdGroup, error) {
	return r.groups, nil
}

type aggregate struct {
	adsCount int
	abx, ace []domain.AdSummary
}

type fakeContents struct {
	nextID     int64
	byPostID   map[string]*domain.Content
	aggregates map[int64]aggregate
	totalSpend map[int64]int64
	adContent  map[string]int64
	spendSums  map[int64]int64
	scorable   []domain.Content
	scores     map[int64]float64
	top        []domain.Content
}

func newFakeContents() *fakeContents {
	return &fakeContents{
		byPostID:   map[string]*domain.Content{},
		aggregates: map[int64]aggregate{},
		totalSpend: map[int64]int64{},
		adContent:  map[string]int64{},
		spendSums:  map[int64]int64{},
		scores:     map[int64]float64{},
	}
}

func (r *fakeContents) FindByPostIDs(_ context.Context, _ domain.Platform, postIDs []string) (map[string]*domain.Content, error) {
	out := map[string]*domain.Content{}
	for _, id := range postIDs {
		if c, ok := r.byPostID[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *fakeContents) CreateMinimal(_ context.Context, platform domain.Platform, d port.PostDetail) (*domain.Content, error) {
	if c, ok := r.byPostID[d.ExternalPostID]; ok {
		return c, nil
	}
	r.nextID++
	c := &domain.Content{
		ID:             r.nextID,
		Platform:       platform,
		ExternalPostID: d.ExternalPostID,
		Views:          d.Views,
		Reach:          d.Reach,
	}
	r.byPostID[d.ExternalPostID] = c
	return c, nil
}

func (r *fakeContents) ReplaceAdAggregates(_ context.Context, contentID int64, adsCount int, abx, ace []domain.AdSummary) error {
	r.aggregates[contentID] = aggregate{adsCount: adsCount, abx: abx, ace: ace}
	return nil
}

func (r *fakeContents) SetTotalAdSpend(_ context.Context, contentID int64, spend int64) error {
	r.totalSpend[contentID] = spend
	return nil
}

func (r *fakeContents) ContentIDsForAds(_ context.Context, _ domain.Platform, externalAdIDs []string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, id := range externalAdIDs {
		if cid, ok := r.adContent[id]; ok {
			out[id] = cid
		}
	}
	return out, nil
}

func (r *fakeContents) AdSpendTotals(_ context.Context, contentIDs []int64) (map[int64]int64, error) {
	out := map[int64]int64{}
	for _, id := range contentIDs {
		if s, ok := r.spendSums[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (r *fakeContents) ListScorable(_ context.Context, _ domain.Platform, limit int) ([]domain.Content, error) {
	if limit < len(r.scorable) {
		return r.scorable[:limit], nil
	}
	return r.scorable, nil
}

func (r *fakeContents) UpdateScore(_ context.Context, contentID int64, score float64, _ domain.ScoreBreakdown) error {
	r.scores[contentID] = score
	return nil
}

func (r *fakeContents) TopByScore(_ context.Context, limit int) ([]domain.Content, error) {
	if limit < len(r.top) {
		return r.top[:limit], nil
	}
	return r.top, nil
}

type fakeCursors struct {
	cursors map[string]*domain.SyncCursor
}

func newFakeCursors() *fakeCursors {
	return &fakeCursors{cursors: map[string]*domain.SyncCursor{}}
}

func cursorKey(accountID int64, platform domain.Platform) string {
	return fmt.Sprintf("%d/%s", accountID, platform)
}

func (r *fakeCursors) Get(_ context.Context, accountID int64, platform domain.Platform) (*domain.SyncCursor, error) {
	return r.cursors[cursorKey(accountID, platform)], nil
}

func (r *fakeCursors) Advance(_ context.Context, accountID int64, platform domain.Platform, completed time.Time) error {
	key := cursorKey(accountID, platform)
	if cur := r.cursors[key]; cur != nil && !completed.After(cur.LastCompletedDate) {
		return nil
	}
	r.cursors[key] = &domain.SyncCursor{AccountID: accountID, Platform: platform, LastCompletedDate: completed}
	return nil
}

type completedRun struct {
	name      string
	success   bool
	message   string
	processed int
}

type fakeRuns struct {
	nextID    int
	started   []string
	triggers  []string
	completed []completedRun
	stale     int
}

func (r *fakeRuns) Start(_ context.Context, name, triggeredBy string) (string, error) {
	r.nextID++
	r.started = append(r.started, name)
	r.triggers = append(r.triggers, triggeredBy)
	return fmt.Sprintf("run-%d", r.nextID), nil
}

func (r *fakeRuns) Complete(_ context.Context, _ string, success bool, message string, processed, _, _ int) error {
	name := ""
	if len(r.started) > 0 {
		name = r.started[len(r.started)-1]
	}
	r.completed = append(r.completed, completedRun{name: name, success: success, message: message, processed: processed})
	return nil
}

func (r *fakeRuns) FailStale(_ context.Context, _ time.Duration) (int, error) {
	return r.stale, nil
}

func (r *fakeRuns) List(_ context.Context, _ int) ([]domain.TaskRun, error) {
	return nil, nil
}

func (r *fakeRuns) Get(_ context.Context, _ string) (*domain.TaskRun, error) {
	return nil, nil
}

type fakeBudgets struct {
	plans       []domain.BudgetPlan
	allocations map[int64][]domain.BudgetAllocation
	dailies     map[string]*domain.DailyBudget
	spentBefore map[int64]int64
	plannedOn   map[int64]int64
	created     []domain.DailyBudget
	marked      []domain.AllocationStrategy
	logs        []domain.OptimizationLog
}

func newFakeBudgets() *fakeBudgets {
	return &fakeBudgets{
		allocations: map[int64][]domain.BudgetAllocation{},
		dailies:     map[string]*domain.DailyBudget{},
		spentBefore: map[int64]int64{},
		plannedOn:   map[int64]int64{},
	}
}

func dailyKey(allocationID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", allocationID, date.Format("2006-01-02"))
}

func (r *fakeBudgets) ActivePlans(_ context.Context, _ time.Time) ([]domain.BudgetPlan, error) {
	return r.plans, nil
}

func (r *fakeBudgets) Allocations(_ context.Context, planID int64) ([]domain.BudgetAllocation, error) {
	return r.allocations[planID], nil
}

func (r *fakeBudgets) DailyBudget(_ context.Context, allocationID int64, date time.Time) (*domain.DailyBudget, error) {
	return r.dailies[dailyKey(allocationID, date)], nil
}

func (r *fakeBudgets) CreateDailyBudget(_ context.Context, d *domain.DailyBudget) error {
	d.ID = int64(len(r.created) + 1)
	r.created = append(r.created, *d)
	r.dailies[dailyKey(d.AllocationID, d.Date)] = d
	return nil
}

func (r *fakeBudgets) SpentBefore(_ context.Context, allocationID int64, _ time.Time) (int64, error) {
	return r.spentBefore[allocationID], nil
}

func (r *fakeBudgets) PlannedOn(_ context.Context, planID int64, _ time.Time) (int64, error) {
	return r.plannedOn[planID], nil
}

func (r *fakeBudgets) MarkAllocated(_ context.Context, _ int64, strategy domain.AllocationStrategy) error {
	r.marked = append(r.marked, strategy)
	return nil
}

func (r *fakeBudgets) AppendLog(_ context.Context, log *domain.OptimizationLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}
