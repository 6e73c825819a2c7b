package discovery

import (
	"context"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultBatchSize = 5

type StatsAPI interface {
	FollowerStats(ctx context.Context, id string) (*models.FollowerStats, error)
}

// Enricher attaches follower stats to discovery results.
// Uncached ids are fetched in chunks of BatchSize; a chunk runs concurrently and chunks run one after another,
// so no more than BatchSize requests are ever in flight.
type Enricher struct {
	stats     StatsAPI
	cache     *MetricsCache
	batchSize int
	log       *zap.Logger
}

func NewEnricher(stats StatsAPI, cache *MetricsCache, batchSize int, log *zap.Logger) *Enricher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if cache == nil {
		cache = NewMetricsCache()
	}
	return &Enricher{stats: stats, cache: cache, batchSize: batchSize, log: log}
}

func (e *Enricher) Cache() *MetricsCache { return e.cache }

// Enrich returns stats keyed by influencer id. Failed lookups are absent from the result and are retried on
// the next call; they are logged, never returned.
func (e *Enricher) Enrich(ctx context.Context, ids []string) map[string]*models.FollowerStats {
	out := make(map[string]*models.FollowerStats, len(ids))
	var pending []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := e.cache.Get(id); ok {
			out[id] = s
			continue
		}
		pending = append(pending, id)
	}

	var mu sync.Mutex
	for start := 0; start < len(pending); start += e.batchSize {
		if ctx.Err() != nil {
			e.log.Debug("enrichment stopped", zap.Int("remaining", len(pending)-start), zap.Error(ctx.Err()))
			break
		}
		end := start + e.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		var g errgroup.Group
		for _, id := range pending[start:end] {
			g.Go(func() error {
				s, err := e.stats.FollowerStats(ctx, id)
				if err != nil {
					e.log.Warn("follower stats unavailable", zap.String("influencer_id", id), zap.Error(err))
					return nil
				}
				e.cache.Put(id, s)
				mu.Lock()
				out[id] = s
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}
	return out
}
