package ports

import (
	"context"

	"favorite-rates-service/internal/domain/model"
)

// RateRepository fetches the full rate table for one base currency. An upstream
// that answered with a failure result returns *model.UpstreamError.
type RateRepository interface {
	FetchRates(ctx context.Context, base model.Currency) (*model.RateSnapshot, error)
}
