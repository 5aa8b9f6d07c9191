package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
	"github.com/wonny/rsystem/pkg/logger"
)

// RankingResult is one ranking run
type RankingResult struct {
	Metric      contracts.Metric      `json:"metric"`
	Sources     []contracts.Source    `json:"sources"`
	Rows        []contracts.RankedRow `json:"rows"`
	Notices     contracts.Notices     `json:"notices"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// DailyResult is the row list of one source
type DailyResult struct {
	Source      contracts.Source        `json:"source"`
	Rows        []contracts.SnapshotRow `json:"rows"`
	Notices     contracts.Notices       `json:"notices"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Pipeline runs fetch, merge, enrich and rank
// ⭐ SSOT: the only place the screener stages are chained
type Pipeline struct {
	fetcher  *Fetcher
	merger   *Merger
	enricher *Enricher
	sources  []contracts.Source
	now      func() time.Time
	logger   *logger.Logger
}

// NewPipeline creates a pipeline ranking over sources
func NewPipeline(fetcher *Fetcher, sources []contracts.Source, candleFallback bool, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		merger:   NewMerger(fetcher, log),
		enricher: NewEnricher(fetcher, candleFallback, log),
		sources:  sources,
		now:      time.Now,
		logger:   log,
	}
}

// Ranking merges the ranking sources, prices every stock and orders by metric.
// It never fails; partial results carry notices.
func (p *Pipeline) Ranking(ctx context.Context, metric contracts.Metric) RankingResult {
	start := time.Now()

	merged, notices := p.merger.Merge(ctx, p.sources)
	result := RankingResult{
		Metric:      metric,
		Sources:     p.sources,
		Rows:        []contracts.RankedRow{},
		GeneratedAt: p.now(),
	}

	if len(merged) == 0 {
		notices.Info("", "ランキング対象データがありません")
		result.Notices = notices
		return result
	}

	priced, priceNotices := p.enricher.Enrich(ctx, merged)
	notices = append(notices, priceNotices...)

	result.Rows = Rank(priced, metric)
	result.Notices = notices

	p.logger.WithFields(map[string]interface{}{
		"metric":   metric,
		"rows":     len(result.Rows),
		"notices":  len(notices),
		"duration": time.Since(start).String(),
	}).Info("Ranking built")

	return result
}

// DailyList returns the rows of one source in upstream order
func (p *Pipeline) DailyList(ctx context.Context, source contracts.Source) DailyResult {
	result := DailyResult{
		Source:      source,
		Rows:        []contracts.SnapshotRow{},
		GeneratedAt: p.now(),
	}

	rows, err := p.fetcher.Snapshot(ctx, source)
	if err != nil {
		result.Notices = append(result.Notices, snapshotNotice(source, err))
		p.logger.WithError(err).WithField("source", source).Warn("Daily list unavailable")
		return result
	}

	if len(rows) == 0 {
		result.Notices.Info(source, fmt.Sprintf("%sは該当銘柄がありませんでした", source.Label()))
		return result
	}

	result.Rows = rows
	return result
}

// Candles returns the chart data of one stock
func (p *Pipeline) Candles(ctx context.Context, code string) ([]contracts.Candle, error) {
	return p.fetcher.Candles(ctx, CanonicalCode(code))
}

// snapshotNotice turns a snapshot failure into a user-visible message
func snapshotNotice(source contracts.Source, err error) contracts.Notice {
	msg := fmt.Sprintf("%sのデータ読み込み中にエラーが発生しました: %v", source.Label(), err)
	if errors.Is(err, highlow.ErrSchemaMismatch) {
		msg = fmt.Sprintf("%sのデータ形式が想定外です（'code'列がありません）", source.Label())
	}
	return contracts.Notice{
		Level:   contracts.NoticeError,
		Source:  source,
		Message: msg,
	}
}
