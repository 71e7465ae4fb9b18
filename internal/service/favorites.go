package service

import (
	"context"
	"fmt"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/pkg/logger"
)

type FavoritesService struct {
	store ports.FavoritesStore
	log   *logger.Logger
}

func NewFavoritesService(store ports.FavoritesStore, log *logger.Logger) *FavoritesService {
	return &FavoritesService{store: store, log: log}
}

func (s *FavoritesService) List(ctx context.Context) ([]model.FavoritePair, error) {
	return s.store.List(ctx)
}

func (s *FavoritesService) Add(ctx context.Context, rawPair string) (model.FavoritePair, error) {
	pair, err := model.ParsePair(rawPair)
	if err != nil {
		return model.FavoritePair{}, fmt.Errorf("%w: %v", ErrInvalidPair, err)
	}

	if err := s.store.Add(ctx, pair); err != nil {
		return model.FavoritePair{}, err
	}

	s.log.Info("Favorite added", "pair", pair.Key())
	return pair, nil
}

func (s *FavoritesService) Remove(ctx context.Context, rawPair string) (model.FavoritePair, error) {
	pair, err := model.ParsePair(rawPair)
	if err != nil {
		return model.FavoritePair{}, fmt.Errorf("%w: %v", ErrInvalidPair, err)
	}

	if err := s.store.Remove(ctx, pair); err != nil {
		return model.FavoritePair{}, err
	}

	s.log.Info("Favorite removed", "pair", pair.Key())
	return pair, nil
}

// Seed adds the configured favorites, skipping the malformed ones.
func (s *FavoritesService) Seed(ctx context.Context, rawPairs []string) error {
	pairs, dropped := model.ParsePairs(rawPairs)
	for _, raw := range dropped {
		s.log.Warn("Ignoring malformed favorite", "pair", raw)
	}

	for _, pair := range pairs {
		if err := s.store.Add(ctx, pair); err != nil {
			return fmt.Errorf("seed favorite %s: %w", pair.Key(), err)
		}
	}
	return nil
}
