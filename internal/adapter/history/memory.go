package history

import (
	"context"
	"sync"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

// MemoryStore keeps series in process memory. It satisfies the same contract
// as the durable stores except for surviving restarts.
type MemoryStore struct {
	seriesMap map[string][]float64
	mutex     sync.RWMutex
	capacity  int
	log       *logger.Logger
}

func NewMemoryStore(capacity int, log *logger.Logger) *MemoryStore {
	if capacity <= 0 {
		capacity = model.MaxPoints
	}
	return &MemoryStore{
		seriesMap: make(map[string][]float64),
		capacity:  capacity,
		log:       log,
	}
}

func (s *MemoryStore) Append(ctx context.Context, pairKey string, rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	next, changed := appendPoint(s.seriesMap[pairKey], rate, s.capacity)
	if !changed {
		s.log.Debug("History append skipped, same as last", "pair", pairKey, "rate", rate)
		return nil
	}

	s.seriesMap[pairKey] = next
	s.log.Debug("History appended", "pair", pairKey, "rate", rate, "points", len(next))
	return nil
}

func (s *MemoryStore) Series(ctx context.Context, pairKey string) ([]float64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	series := s.seriesMap[pairKey]
	out := make([]float64, len(series))
	copy(out, series)
	return out, nil
}

func (s *MemoryStore) Last(ctx context.Context, pairKey string) (float64, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	series := s.seriesMap[pairKey]
	if len(series) == 0 {
		return 0, false, nil
	}
	return series[len(series)-1], true, nil
}

func (s *MemoryStore) Clear(ctx context.Context, pairKey string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.seriesMap, pairKey)
	return nil
}
