package cache

import (
	"context"
	"sync"
	"time"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

type entry struct {
	snapshot  *model.RateSnapshot
	fetchedAt time.Time
}

// MemoryCache holds the last successful snapshot per base currency.
type MemoryCache struct {
	cacheMap map[model.Currency]entry
	mutex    sync.RWMutex
	cacheTTL time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewMemoryCache(cacheTTL time.Duration, log *logger.Logger) *MemoryCache {
	return &MemoryCache{
		cacheMap: make(map[model.Currency]entry),
		cacheTTL: cacheTTL,
		now:      time.Now,
		log:      log,
	}
}

func (c *MemoryCache) Get(ctx context.Context, base model.Currency) (*model.RateSnapshot, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, found := c.cacheMap[base]
	if !found {
		c.log.Debug("Cache miss", "base", base)
		return nil, false
	}

	if c.now().Sub(e.fetchedAt) > c.cacheTTL {
		c.log.Debug("Cache entry expired", "base", base)
		return nil, false
	}

	c.log.Debug("Cache hit", "base", base)
	return e.snapshot, true
}

func (c *MemoryCache) Set(ctx context.Context, snapshot *model.RateSnapshot) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cacheMap[snapshot.Base] = entry{snapshot: snapshot, fetchedAt: c.now()}
	c.log.Debug("Cache set", "base", snapshot.Base)

	return nil
}

func (c *MemoryCache) ClearExpired(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	expired := 0
	for base, e := range c.cacheMap {
		if now.Sub(e.fetchedAt) > c.cacheTTL {
			delete(c.cacheMap, base)
			expired++
		}
	}

	c.log.Info("Cleared expired cache entries", "count", expired)
	return nil
}
