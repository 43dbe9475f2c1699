package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"boostx/internal/core/domain"
)

const defaultRunLimit = 50

type runResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Message     string     `json:"message,omitempty"`
	Processed   int        `json:"processed"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	TriggeredBy string     `json:"triggered_by"`
}

func toRunResponse(t domain.TaskRun) runResponse {
	return runResponse{
		ID:          t.ID,
		Name:        t.Name,
		Status:      string(t.Status),
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Message:     t.Message,
		Processed:   t.Processed,
		Succeeded:   t.Succeeded,
		Failed:      t.Failed,
		TriggeredBy: t.TriggeredBy,
	}
}

// handleRunList returns the most recent task runs. The optional `limit`
// query parameter caps the result; invalid values produce HTTP 400.
func (h *Handler) handleRunList(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list runs error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]runResponse, 0, len(runs))
	for _, t := range runs {
		out = append(out, toRunResponse(t))
	}
	writeJSON(w, h.logger, out)
}

// handleRunGet returns one task run by id, 404 when unknown.
func (h *Handler) handleRunGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runs.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get run error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, h.logger, toRunResponse(*run))
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", slog.Any("error", err))
	}
}
