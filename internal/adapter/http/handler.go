package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"log/slog"

	"boostx/internal/core/port"
)

// Handler is the inbound HTTP adapter. The surface is operational only:
// health, run inspection and manual job triggers. All pipeline work
// happens in the usecases; nothing here touches the platform directly.
type Handler struct {
	sync     port.SyncUseCase
	score    port.ScoreUseCase
	optimize port.OptimizeUseCase
	runs     port.RunRepository
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(sync port.SyncUseCase, score port.ScoreUseCase, optimize port.OptimizeUseCase, runs port.RunRepository, logger *slog.Logger) *Handler {
	h := &Handler{sync: sync, score: score, optimize: optimize, runs: runs, logger: logger}
	r := chi.NewRouter()

	r.Get("/healthz", h.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", h.handleRunList)
		r.Get("/runs/{id}", h.handleRunGet)
		r.Post("/sync/trigger", h.handleTrigger)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
