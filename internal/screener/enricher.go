package screener

import (
	"context"
	"fmt"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
	"github.com/wonny/rsystem/pkg/logger"
)

// PriceSource supplies current prices
type PriceSource interface {
	BatchPrices(ctx context.Context) (map[string]float64, error)
	Quote(ctx context.Context, code string) (float64, error)
	Candles(ctx context.Context, code string) ([]contracts.Candle, error)
}

// PricedRow is a snapshot row with its current price, nil when unknown
type PricedRow struct {
	contracts.SnapshotRow
	Current *float64
}

// Enricher attaches current prices to merged rows
type Enricher struct {
	prices         PriceSource
	candleFallback bool
	logger         *logger.Logger
}

// NewEnricher creates a new enricher.
// With candleFallback set, a failed quote falls back to the latest candle close.
func NewEnricher(prices PriceSource, candleFallback bool, log *logger.Logger) *Enricher {
	return &Enricher{
		prices:         prices,
		candleFallback: candleFallback,
		logger:         log,
	}
}

// Enrich prices every row: batch list first, then one quote per remaining code.
// Per-stock lookups run one at a time; the quote client is rate limited.
// Failures leave Current nil and are summarized as notices.
func (e *Enricher) Enrich(ctx context.Context, rows []contracts.SnapshotRow) ([]PricedRow, contracts.Notices) {
	var notices contracts.Notices

	batch, err := e.prices.BatchPrices(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("Batch prices unavailable, falling back to per-stock quotes")
		notices.Error("", fmt.Sprintf("一括株価の取得に失敗しました: %v", err))
		batch = nil
	}

	out := make([]PricedRow, len(rows))
	var missing []string

	for i, row := range rows {
		out[i] = PricedRow{SnapshotRow: row}

		if price, ok := batch[row.Code]; ok {
			p := price
			out[i].Current = &p
			continue
		}

		if ctx.Err() != nil {
			missing = append(missing, row.Code)
			continue
		}

		if price, ok := e.lookup(ctx, row.Code); ok {
			out[i].Current = &price
			continue
		}
		missing = append(missing, row.Code)
	}

	if len(missing) > 0 {
		notices = append(notices, contracts.Notice{
			Level:   contracts.NoticeError,
			Message: fmt.Sprintf("現在値を取得できなかった銘柄が%d件あります", len(missing)),
		})
		e.logger.WithFields(map[string]interface{}{
			"missing": len(missing),
			"total":   len(rows),
		}).Warn("Current price unavailable for some stocks")
	}

	return out, notices
}

func (e *Enricher) lookup(ctx context.Context, code string) (float64, bool) {
	price, err := e.prices.Quote(ctx, code)
	if err == nil {
		return price, true
	}
	e.logger.WithError(err).WithField("code", code).Debug("Quote failed")

	if !e.candleFallback {
		return 0, false
	}

	candles, err := e.prices.Candles(ctx, code)
	if err != nil {
		e.logger.WithError(err).WithField("code", code).Debug("Candle fallback failed")
		return 0, false
	}
	return highlow.LatestClose(candles)
}
