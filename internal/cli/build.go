package cli

import (
	"fmt"

	"github.com/ppiankov/jimaku/internal/cache"
	"github.com/ppiankov/jimaku/internal/history"
	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/lookup"
	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/pipeline"
	"github.com/ppiankov/jimaku/internal/worker"
)

// newLookupClient wires the reference API client with its cache and
// batch pacing
func newLookupClient(cfg *model.Config) (*lookup.Client, error) {
	log := logger.Default().With("component", "lookup")

	opts := []lookup.Option{
		lookup.WithLogger(log),
		lookup.WithLimiter(worker.NewIntervalLimiter(cfg.RateLimiting.BatchDelay, cfg.RateLimiting.Burst)),
		lookup.WithProgress(func(done, total int) {
			log.Debug("lookup progress", "done", done, "total", total)
		}),
	}
	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.TTL)
		opts = append(opts, lookup.WithCache(store, cfg.Cache.TTL))
	}

	client, err := lookup.NewClient(cfg.Lookup, opts...)
	if err != nil {
		return nil, fmt.Errorf("lookup client: %w (set lookup.base_url or JIMAKU_LOOKUP_BASE_URL)", err)
	}
	return client, nil
}

// newAnalyzer builds the full analysis pipeline for cfg
func newAnalyzer(cfg *model.Config) (*pipeline.Analyzer, error) {
	client, err := newLookupClient(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewAnalyzer(cfg, client, pipeline.WithLogger(logger.Default().With("component", "pipeline")))
}

// saveHistory stores report when history is enabled; failures only warn
func saveHistory(cfg *model.Config, report *model.Report) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.NewStore(cfg.History.Dir)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	if _, err := store.Save(report); err != nil {
		logger.Warn("failed to save analysis to history", "id", report.ID, "err", err)
		return
	}
	logger.Debug("saved analysis to history", "id", report.ID)
}
