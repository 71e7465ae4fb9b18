package ports

import (
	"context"

	"favorite-rates-service/internal/domain/model"
)

type RateService interface {
	Refresh(ctx context.Context, pairs []model.FavoritePair) ([]model.RefreshResult, error)
	RefreshFavorites(ctx context.Context) ([]model.RefreshResult, error)
	Quote(ctx context.Context, from, to string) (*model.Quote, error)
	History(ctx context.Context, rawPair string) (*model.HistoryView, error)
	Sparkline(ctx context.Context, rawPair string, width, height float64) (*model.Sparkline, error)
}

type FavoritesService interface {
	List(ctx context.Context) ([]model.FavoritePair, error)
	Add(ctx context.Context, rawPair string) (model.FavoritePair, error)
	Remove(ctx context.Context, rawPair string) (model.FavoritePair, error)
}
