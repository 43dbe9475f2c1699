package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"boostx/internal/core/port"
)

type triggerRequest struct {
	Job string `json:"job"`
}

// handleTrigger starts one job out of schedule. The job runs detached
// from the request; the caller polls /runs for the outcome. Unknown job
// names produce HTTP 400.
func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var fn func(context.Context) error
	switch req.Job {
	case "ads_sync":
		fn = func(ctx context.Context) error { _, err := h.sync.SyncAds(ctx); return err }
	case "spend_sync":
		fn = func(ctx context.Context) error { _, err := h.sync.SyncSpend(ctx); return err }
	case "score_recalc":
		fn = func(ctx context.Context) error { _, err := h.score.RecalculateScores(ctx); return err }
	case "budget_optimize":
		fn = func(ctx context.Context) error { _, err := h.optimize.RunOptimization(ctx); return err }
	case "daily_budget":
		fn = func(ctx context.Context) error { _, err := h.optimize.RollForwardDailyBudgets(ctx); return err }
	default:
		http.Error(w, "unknown job", http.StatusBadRequest)
		return
	}

	go func() {
		ctx := port.WithTrigger(context.Background(), "manual")
		if err := fn(ctx); err != nil {
			h.logger.Error("manual job failed", slog.String("job", req.Job), slog.Any("error", err))
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, h.logger, map[string]string{"job": req.Job, "status": "started"})
}
