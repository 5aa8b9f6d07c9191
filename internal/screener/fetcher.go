package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/rsystem/internal/cache"
	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
	"github.com/wonny/rsystem/pkg/logger"
	"github.com/wonny/rsystem/pkg/redis"
)

// Upstream is the raw high/low API surface
type Upstream interface {
	FetchSnapshot(ctx context.Context, source contracts.Source) ([]contracts.RawRow, error)
	FetchBatchPrices(ctx context.Context) ([]contracts.RawRow, error)
	FetchQuote(ctx context.Context, code string) (contracts.RawRow, error)
	FetchCandles(ctx context.Context, code string) ([]contracts.Candle, error)
}

// Caches groups the read-through caches in front of Upstream
type Caches struct {
	Snapshots *cache.ReadThrough[[]contracts.SnapshotRow]
	Batch     *cache.ReadThrough[map[string]float64]
	Quotes    *cache.ReadThrough[float64]
	Candles   *cache.ReadThrough[[]contracts.Candle]
}

// NewCaches builds all caches with one TTL.
// A disabled or nil redis client keeps everything in process memory.
func NewCaches(client *redis.Client, ttl time.Duration, now cache.Clock, log *logger.Logger) Caches {
	return Caches{
		Snapshots: cache.NewReadThrough("snapshots",
			cache.NewStore[[]contracts.SnapshotRow](client, "rsystem:snapshots", ttl), ttl, now, log),
		Batch: cache.NewReadThrough("batch_prices",
			cache.NewStore[map[string]float64](client, "rsystem:batch", ttl), ttl, now, log),
		Quotes: cache.NewReadThrough("quotes",
			cache.NewStore[float64](client, "rsystem:quotes", ttl), ttl, now, log),
		Candles: cache.NewReadThrough("candles",
			cache.NewStore[[]contracts.Candle](client, "rsystem:candles", ttl), ttl, now, log),
	}
}

// Purgers lists the caches for the janitor and the purge endpoint
func (c Caches) Purgers() []cache.Purger {
	return []cache.Purger{c.Snapshots, c.Batch, c.Quotes, c.Candles}
}

// Fetcher reads normalized data from Upstream through the caches
// ⭐ SSOT: screener reads upstream data only through Fetcher
type Fetcher struct {
	upstream Upstream
	caches   Caches
	logger   *logger.Logger
}

// NewFetcher creates a new fetcher
func NewFetcher(upstream Upstream, caches Caches, log *logger.Logger) *Fetcher {
	return &Fetcher{
		upstream: upstream,
		caches:   caches,
		logger:   log,
	}
}

// Snapshot returns the normalized rows of one source
func (f *Fetcher) Snapshot(ctx context.Context, source contracts.Source) ([]contracts.SnapshotRow, error) {
	return f.caches.Snapshots.Get(ctx, redis.SnapshotKey(string(source)), func(ctx context.Context) ([]contracts.SnapshotRow, error) {
		raws, err := f.upstream.FetchSnapshot(ctx, source)
		if err != nil {
			return nil, err
		}

		rows := Normalize(source, raws)
		if dropped := len(raws) - len(rows); dropped > 0 {
			f.logger.WithFields(map[string]interface{}{
				"source":  source,
				"dropped": dropped,
			}).Debug("Rows without numeric high/low dropped")
		}
		return rows, nil
	})
}

// BatchPrices returns current prices keyed by canonical code
func (f *Fetcher) BatchPrices(ctx context.Context) (map[string]float64, error) {
	return f.caches.Batch.Get(ctx, redis.BatchPricesKey(), func(ctx context.Context) (map[string]float64, error) {
		raws, err := f.upstream.FetchBatchPrices(ctx)
		if err != nil {
			return nil, err
		}

		prices := make(map[string]float64, len(raws))
		for _, raw := range raws {
			code := CanonicalCode(highlow.ToString(raw["code"]))
			price, ok := highlow.ToFloat(raw["current_price"])
			if code == "" || !ok {
				continue
			}
			prices[code] = price
		}
		return prices, nil
	})
}

// Quote returns the current price of one stock
func (f *Fetcher) Quote(ctx context.Context, code string) (float64, error) {
	return f.caches.Quotes.Get(ctx, redis.QuoteKey(code), func(ctx context.Context) (float64, error) {
		raw, err := f.upstream.FetchQuote(ctx, code)
		if err != nil {
			return 0, err
		}

		price, ok := highlow.ToFloat(raw["current_price"])
		if !ok {
			return 0, fmt.Errorf("quote %s: no current_price: %w", code, highlow.ErrSchemaMismatch)
		}
		return price, nil
	})
}

// Candles returns daily candles of one stock, oldest first
func (f *Fetcher) Candles(ctx context.Context, code string) ([]contracts.Candle, error) {
	return f.caches.Candles.Get(ctx, redis.CandleKey(code), func(ctx context.Context) ([]contracts.Candle, error) {
		return f.upstream.FetchCandles(ctx, code)
	})
}
