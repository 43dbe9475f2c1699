package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostx/internal/core/domain"
	"boostx/internal/core/port"
)

type fakeSync struct {
	calls chan string
}

func (f *fakeSync) SyncAds(ctx context.Context) (port.SyncSummary, error) {
	f.calls <- "ads:" + port.TriggerFrom(ctx)
	return port.SyncSummary{}, nil
}

func (f *fakeSync) SyncSpend(ctx context.Context) (port.SpendSummary, error) {
	f.calls <- "spend:" + port.TriggerFrom(ctx)
	return port.SpendSummary{}, nil
}

type fakeScore struct{}

func (fakeScore) RecalculateScores(context.Context) (port.ScoreSummary, error) {
	return port.ScoreSummary{}, nil
}

type fakeOptimize struct{}

func (fakeOptimize) RunOptimization(context.Context) (port.OptimizeSummary, error) {
	return port.OptimizeSummary{}, nil
}

func (fakeOptimize) RollForwardDailyBudgets(context.Context) (int, error) {
	return 0, nil
}

type fakeRunStore struct {
	runs []domain.TaskRun
}

func (r *fakeRunStore) Start(context.Context, string, string) (string, error) { return "", nil }

func (r *fakeRunStore) Complete(context.Context, string, bool, string, int, int, int) error {
	return nil
}

func (r *fakeRunStore) FailStale(context.Context, time.Duration) (int, error) { return 0, nil }

func (r *fakeRunStore) List(_ context.Context, limit int) ([]domain.TaskRun, error) {
	if limit < len(r.runs) {
		return r.runs[:limit], nil
	}
	return r.runs, nil
}

func (r *fakeRunStore) Get(_ context.Context, runID string) (*domain.TaskRun, error) {
	for i := range r.runs {
		if r.runs[i].ID == runID {
			return &r.runs[i], nil
		}
	}
	return nil, nil
}

type fixture struct {
	handler *Handler
	sync    *fakeSync
	runs    *fakeRunStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sync: &fakeSync{calls: make(chan string, 1)},
		runs: &fakeRunStore{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.handler = NewHandler(f.sync, fakeScore{}, fakeOptimize{}, f.runs, logger)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	f.handler.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRunList(t *testing.T) {
	f := newFixture(t)
	f.runs.runs = []domain.TaskRun{
		{ID: "run-1", Name: "ads_sync", Status: domain.RunCompleted, TriggeredBy: "scheduler"},
		{ID: "run-2", Name: "spend_sync", Status: domain.RunRunning, TriggeredBy: "manual"},
	}

	rec := f.do(t, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "run-1", out[0].ID)
	assert.Equal(t, "manual", out[1].TriggeredBy)
}

func TestRunList_Limit(t *testing.T) {
	f := newFixture(t)
	f.runs.runs = []domain.TaskRun{{ID: "run-1"}, {ID: "run-2"}}

	rec := f.do(t, http.MethodGet, "/api/v1/runs?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestRunList_InvalidLimit(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/runs?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/runs?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunGet(t *testing.T) {
	f := newFixture(t)
	f.runs.runs = []domain.TaskRun{{ID: "run-1", Name: "ads_sync"}}

	rec := f.do(t, http.MethodGet, "/api/v1/runs/run-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ads_sync", out.Name)
}

func TestRunGet_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/runs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrigger_StartsJobDetached(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/sync/trigger", `{"job":"ads_sync"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "started", out["status"])

	select {
	case call := <-f.sync.calls:
		assert.Equal(t, "ads:manual", call)
	case <-time.After(time.Second):
		t.Fatal("job was not started")
	}
}

func TestTrigger_UnknownJob(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/sync/trigger", `{"job":"mystery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrigger_InvalidBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/sync/trigger", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
