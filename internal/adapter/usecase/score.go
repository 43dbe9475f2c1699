package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

// ScoreUseCase recalculates content performance scores and rolls them up
// to ad groups.
type ScoreUseCase struct {
	contents  port.ContentRepository
	campaigns port.CampaignRepository
	runs      port.RunRepository

	params domain.ScoreParams
	batch  int
	log    *slog.Logger
}

// NewScoreUseCase creates the scoring usecase.
func NewScoreUseCase(
	contents port.ContentRepository,
	campaigns port.CampaignRepository,
	runs port.RunRepository,
	params domain.ScoreParams,
	batch int,
	log *slog.Logger,
) *ScoreUseCase {
	return &ScoreUseCase{
		contents:  contents,
		campaigns: campaigns,
		runs:      runs,
		params:    params,
		batch:     batch,
		log:       log,
	}
}

// RecalculateScores scores one batch of contents, persists each score
// with its breakdown, then refreshes the group rollups. A failure on one
// content is counted and the batch continues.
func (u *ScoreUseCase) RecalculateScores(ctx context.Context) (port.ScoreSummary, error) {
	var sum port.ScoreSummary
	runID, err := u.runs.Start(ctx, "score_recalc", port.TriggerFrom(ctx))
	if err != nil {
		return sum, err
	}

	contents, err := u.contents.ListScorable(ctx, domain.PlatformTikTok, u.batch)
	if err != nil {
		_ = u.runs.Complete(ctx, runID, false, err.Error(), 0, 0, 0)
		return sum, err
	}

	for i := range contents {
		bd := domain.ComputeScore(&contents[i], u.params)
		if err := u.contents.UpdateScore(ctx, contents[i].ID, bd.Final, bd); err != nil {
			sum.Errors++
			u.log.Error("score update failed", "content", contents[i].ID, "error", err)
			continue
		}
		sum.Scored++
	}

	if err := u.campaigns.RollupGroupScores(ctx); err != nil {
		sum.Errors++
		u.log.Error("group score rollup failed", "error", err)
	}

	msg := fmt.Sprintf("scored=%d", sum.Scored)
	_ = u.runs.Complete(ctx, runID, sum.Errors == 0, msg, len(contents), sum.Scored, sum.Errors)
	return sum, nil
}
