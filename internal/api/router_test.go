package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rsystem/internal/api/handlers"
	"github.com/wonny/rsystem/internal/cache"
	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
	"github.com/wonny/rsystem/pkg/logger"
)

type stubScreener struct{}

func (stubScreener) Ranking(_ context.Context, metric contracts.Metric) screener.RankingResult {
	return screener.RankingResult{Metric: metric, Rows: []contracts.RankedRow{}}
}

func (stubScreener) DailyList(_ context.Context, source contracts.Source) screener.DailyResult {
	return screener.DailyResult{Source: source, Rows: []contracts.SnapshotRow{}}
}

func (stubScreener) Candles(context.Context, string) ([]contracts.Candle, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, passwords ...string) http.Handler {
	t.Helper()
	log := logger.Nop()

	renderer, err := present.NewRenderer()
	require.NoError(t, err)

	dashboard := config.DashboardConfig{Links: config.DefaultLinks()}
	screenerHandler := handlers.NewScreenerHandler(stubScreener{}, renderer, contracts.MetricRange, dashboard, log)
	cacheHandler := handlers.NewCacheHandler([]cache.Purger{
		cache.NewReadThrough[int]("quotes", cache.NewMemoryStore[int](), time.Minute, nil, log),
	}, log)
	authHandler := handlers.NewAuthHandler(passwords, handlers.NewSessions(time.Hour), renderer, log)

	return NewRouter(handlers.NewHealthHandler(nil), screenerHandler, cacheHandler, authHandler, log)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, "secret")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsKept(t *testing.T) {
	router := newTestRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRoutes_Open(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/ranking?metric=high", http.StatusOK},
		{http.MethodGet, "/api/snapshots/today", http.StatusOK},
		{http.MethodGet, "/api/snapshots/nope", http.StatusBadRequest},
		{http.MethodPost, "/api/cache/purge", http.StatusOK},
		{http.MethodGet, "/api/cache/purge", http.StatusMethodNotAllowed},
		{http.MethodGet, "/charts/1000", http.StatusOK},
		{http.MethodGet, "/login", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoutes_Gated(t *testing.T) {
	router := newTestRouter(t, "secret")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
