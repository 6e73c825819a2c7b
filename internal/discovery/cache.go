package discovery

import (
	"sync"

	"github.com/influencer-marketplace/webclient/internal/models"
)

// MetricsCache keeps follower stats for the life of one discovery session. It never evicts.
type MetricsCache struct {
	mu sync.RWMutex
	m  map[string]*models.FollowerStats
}

func NewMetricsCache() *MetricsCache {
	return &MetricsCache{m: make(map[string]*models.FollowerStats)}
}

func (c *MetricsCache) Get(id string) (*models.FollowerStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.m[id]
	return s, ok
}

func (c *MetricsCache) Put(id string, s *models.FollowerStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = s
}

func (c *MetricsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
