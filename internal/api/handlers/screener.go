package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
	"github.com/wonny/rsystem/pkg/logger"
)

// Screener is the pipeline surface the handlers need
type Screener interface {
	Ranking(ctx context.Context, metric contracts.Metric) screener.RankingResult
	DailyList(ctx context.Context, source contracts.Source) screener.DailyResult
	Candles(ctx context.Context, code string) ([]contracts.Candle, error)
}

// ScreenerHandler serves the dashboard, charts and ranking JSON
// ⭐ SSOT: screener HTTP handlers live in this struct only
type ScreenerHandler struct {
	screener      Screener
	renderer      *present.Renderer
	defaultMetric contracts.Metric
	dashboard     config.DashboardConfig
	logger        *logger.Logger
}

// NewScreenerHandler creates a new screener handler
func NewScreenerHandler(s Screener, renderer *present.Renderer, defaultMetric contracts.Metric, dashboard config.DashboardConfig, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		screener:      s,
		renderer:      renderer,
		defaultMetric: defaultMetric,
		dashboard:     dashboard,
		logger:        log,
	}
}

// RankingResponse is the JSON ranking with display strings.
// Degraded is set when an upstream call failed and the rows may be partial.
type RankingResponse struct {
	screener.RankingResult
	Display  []present.RankingRow `json:"display"`
	Summary  present.Summary      `json:"summary"`
	Degraded bool                 `json:"degraded"`
}

// DailyResponse is the JSON day list after exclusion
type DailyResponse struct {
	screener.DailyResult
	Display  []present.DailyRow `json:"display"`
	Degraded bool               `json:"degraded"`
}

// Dashboard renders the ranking and one day list
// GET /?metric=range|high&day=today
func (h *ScreenerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	metric, err := contracts.ParseMetric(query.Get("metric"))
	if err != nil {
		metric = h.defaultMetric
	}
	day, err := contracts.ParseSource(query.Get("day"))
	if err != nil {
		day = contracts.SourceToday
	}

	var ranking screener.RankingResult
	var daily screener.DailyResult

	// both builds never fail; only a request canceled mid-build ends the group with an error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ranking = h.screener.Ranking(gctx, metric)
		return gctx.Err()
	})
	g.Go(func() error {
		daily = present.FilterDaily(h.screener.DailyList(gctx, day), h.dashboard.ExcludeCodes)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		h.logger.WithError(err).Warn("Dashboard request canceled before render")
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Dashboard(&buf, present.NewDashboardPage(ranking, daily, h.dashboard.Links)); err != nil {
		h.logger.WithError(err).Error("Failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// GetRanking returns the drawdown ranking
// GET /api/ranking?metric=range|high
func (h *ScreenerHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	metric := h.defaultMetric
	if raw := r.URL.Query().Get("metric"); raw != "" {
		parsed, err := contracts.ParseMetric(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		metric = parsed
	}

	result := h.screener.Ranking(r.Context(), metric)
	respondJSON(w, http.StatusOK, RankingResponse{
		RankingResult: result,
		Display:       present.FormatRanking(result.Rows, h.dashboard.Links),
		Summary:       present.Summarize(result.Rows, metric),
		Degraded:      result.Notices.HasErrors(),
	})
}

// GetSnapshot returns one day list with excluded codes removed
// GET /api/snapshots/{source}
func (h *ScreenerHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	source, err := contracts.ParseSource(mux.Vars(r)["source"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := present.FilterDaily(h.screener.DailyList(r.Context(), source), h.dashboard.ExcludeCodes)
	respondJSON(w, http.StatusOK, DailyResponse{
		DailyResult: result,
		Display:     present.FormatDaily(result.Rows, h.dashboard.Links),
		Degraded:    result.Notices.HasErrors(),
	})
}

var chartCaption = template.Must(template.New("caption").Parse(
	`<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8"></head>` +
		`<body style="background:#f8f8f8;color:#777;font-size:12px;font-family:sans-serif">{{.}}</body></html>`))

// Chart renders the candlestick page of one stock
// GET /charts/{code}?name=
func (h *ScreenerHandler) Chart(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(mux.Vars(r)["code"])
	name := r.URL.Query().Get("name")
	if name == "" {
		name = code
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	candles, err := h.screener.Candles(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).WithField("code", code).Warn("Chart data unavailable")
		w.WriteHeader(http.StatusBadGateway)
		chartCaption.Execute(w, "（エラー: "+err.Error()+"）")
		return
	}
	if len(candles) == 0 {
		chartCaption.Execute(w, "（チャートデータなし）")
		return
	}

	var buf bytes.Buffer
	if err := present.RenderCandleChart(&buf, code, name, candles); err != nil {
		h.logger.WithError(err).WithField("code", code).Error("Failed to render chart")
		w.WriteHeader(http.StatusInternalServerError)
		chartCaption.Execute(w, "（エラー: チャートを表示できません）")
		return
	}
	w.Write(buf.Bytes())
}
