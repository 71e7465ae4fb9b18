package repository

import (
	"context"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/pkg/logger"
)

// CachedRepository serves snapshots from cache while they are fresh. Failures
// are never cached.
type CachedRepository struct {
	next  ports.RateRepository
	cache ports.RateCache
	log   *logger.Logger
}

func NewCachedRepository(next ports.RateRepository, cache ports.RateCache, log *logger.Logger) *CachedRepository {
	return &CachedRepository{next: next, cache: cache, log: log}
}

func (r *CachedRepository) FetchRates(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
	if snapshot, found := r.cache.Get(ctx, base); found {
		return snapshot, nil
	}

	snapshot, err := r.next.FetchRates(ctx, base)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, snapshot); err != nil {
		r.log.Error("Failed to cache snapshot", "error", err, "base", base)
	}

	return snapshot, nil
}
