package usecase

import (
	"context"
	"log/slog"
	"time"

	"boostx/internal/core/port"
)

// HousekeepingUseCase remediates runs that died without completing, e.g.
// after a crash or deploy mid-run.
type HousekeepingUseCase struct {
	runs     port.RunRepository
	staleAge time.Duration
	log      *slog.Logger
}

// NewHousekeepingUseCase creates the housekeeping usecase.
func NewHousekeepingUseCase(runs port.RunRepository, staleAge time.Duration, log *slog.Logger) *HousekeepingUseCase {
	return &HousekeepingUseCase{runs: runs, staleAge: staleAge, log: log}
}

// FailStaleRuns force-fails runs stuck in running beyond the staleness
// window and returns how many were remediated.
func (u *HousekeepingUseCase) FailStaleRuns(ctx context.Context) (int, error) {
	n, err := u.runs.FailStale(ctx, u.staleAge)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.log.Warn("force-failed stale runs", "count", n)
	}
	return n, nil
}
