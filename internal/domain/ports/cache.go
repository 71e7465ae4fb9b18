package ports

import (
	"context"

	"favorite-rates-service/internal/domain/model"
)

type RateCache interface {
	Get(ctx context.Context, base model.Currency) (*model.RateSnapshot, bool)
	Set(ctx context.Context, snapshot *model.RateSnapshot) error
	ClearExpired(ctx context.Context) error
}
