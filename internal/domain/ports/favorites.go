package ports

import (
	"context"

	"favorite-rates-service/internal/domain/model"
)

type FavoritesStore interface {
	List(ctx context.Context) ([]model.FavoritePair, error)
	Add(ctx context.Context, pair model.FavoritePair) error
	Remove(ctx context.Context, pair model.FavoritePair) error
}
