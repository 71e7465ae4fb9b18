package favorites

import (
	"context"
	"sync"

	"favorite-rates-service/internal/domain/model"
)

type MemoryStore struct {
	mu    sync.RWMutex
	pairs map[string]model.FavoritePair
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[string]model.FavoritePair)}
}

func (s *MemoryStore) List(ctx context.Context) ([]model.FavoritePair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.FavoritePair, 0, len(s.pairs))
	for _, p := range s.pairs {
		out = append(out, p)
	}
	model.SortPairs(out)
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, pair model.FavoritePair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs[pair.Key()] = pair
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, pair model.FavoritePair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pairs, pair.Key())
	return nil
}
