package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/external/highlow"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
	"github.com/wonny/rsystem/pkg/httputil"
	"github.com/wonny/rsystem/pkg/logger"
	"github.com/wonny/rsystem/pkg/redis"
)

// app holds the components every command shares
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	caches   screener.Caches
	fetcher  *screener.Fetcher
	pipeline *screener.Pipeline
	metric   contracts.Metric
}

// newApp loads config and wires upstream client, caches and pipeline
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	metric, err := contracts.ParseMetric(cfg.Screener.RankingMetric)
	if err != nil {
		return nil, err
	}
	sources, err := contracts.ParseSources(cfg.Screener.RankingSources)
	if err != nil {
		return nil, fmt.Errorf("ranking sources: %w", err)
	}

	// 3. Connect to Redis when it backs the caches
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 4. Create HTTP clients: bulk for snapshots, rate-limited single for per-stock lookups
	bulk := httputil.NewWithTimeout(log, cfg.HighLow.BulkTimeout)
	single := httputil.NewWithTimeout(log, cfg.HighLow.SingleTimeout).WithRateLimit(cfg.HighLow.RateLimit)
	client := highlow.NewClient(cfg.HighLow, bulk, single, log)

	// 5. Create caches and pipeline
	caches := screener.NewCaches(rc, cfg.Cache.TTL, time.Now, log)
	fetcher := screener.NewFetcher(client, caches, log)
	pipeline := screener.NewPipeline(fetcher, sources, cfg.Screener.CandleCloseFallback, log)

	log.WithFields(map[string]interface{}{
		"env":           cfg.Env,
		"cache_backend": cfg.Cache.Backend,
		"cache_ttl":     cfg.Cache.TTL.String(),
		"sources":       cfg.Screener.RankingSources,
		"metric":        metric,
	}).Debug("Application wired")

	return &app{
		cfg:      cfg,
		log:      log,
		redis:    rc,
		caches:   caches,
		fetcher:  fetcher,
		pipeline: pipeline,
		metric:   metric,
	}, nil
}

// Close releases the Redis connection
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
