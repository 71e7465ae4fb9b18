package service

import (
	"context"
	"errors"
	"fmt"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/pkg/logger"
)

var (
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidPair        = errors.New("invalid currency pair")
	ErrInvalidDimensions  = errors.New("invalid sparkline dimensions")
	ErrRateNotFound       = errors.New("exchange rate not found")
	ErrExternalAPIFailure = errors.New("external API failure")
)

// A side must leave room for the padding on both edges plus one unit to plot in.
const (
	minSparklineSide = 2*sparklinePadding + 1
	maxSparklineSide = 4096
)

type ExchangeService struct {
	repository   ports.RateRepository
	history      ports.HistoryStore
	favorites    ports.FavoritesStore
	orchestrator *RefreshOrchestrator
	log          *logger.Logger
}

func NewExchangeService(
	repository ports.RateRepository,
	history ports.HistoryStore,
	favorites ports.FavoritesStore,
	orchestrator *RefreshOrchestrator,
	log *logger.Logger,
) *ExchangeService {
	return &ExchangeService{
		repository:   repository,
		history:      history,
		favorites:    favorites,
		orchestrator: orchestrator,
		log:          log,
	}
}

func (s *ExchangeService) Refresh(ctx context.Context, pairs []model.FavoritePair) ([]model.RefreshResult, error) {
	return s.orchestrator.Refresh(ctx, pairs)
}

// RefreshFavorites refreshes every stored favorite, ordered by pair key.
func (s *ExchangeService) RefreshFavorites(ctx context.Context) ([]model.RefreshResult, error) {
	pairs, err := s.favorites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return s.orchestrator.Refresh(ctx, pairs)
}

// Quote looks up a single rate without recording it in history.
func (s *ExchangeService) Quote(ctx context.Context, from, to string) (*model.Quote, error) {
	pair, err := model.NewPair(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurrency, err)
	}

	s.log.Info("Fetching quote", "pair", pair.Key())
	snapshot, err := s.repository.FetchRates(ctx, pair.Base)
	if err != nil {
		s.log.Error("Failed to fetch quote", "error", err, "pair", pair.Key())
		return nil, fmt.Errorf("%w: %v", ErrExternalAPIFailure, err)
	}

	rate, found := snapshot.Rate(pair.Target)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRateNotFound, pair.Key())
	}

	return &model.Quote{
		Base:    pair.Base,
		Target:  pair.Target,
		Rate:    rate,
		AsOfUTC: snapshot.AsOfUTC,
	}, nil
}

func (s *ExchangeService) History(ctx context.Context, rawPair string) (*model.HistoryView, error) {
	pair, err := model.ParsePair(rawPair)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPair, err)
	}

	series, err := s.history.Series(ctx, pair.Key())
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	view := &model.HistoryView{
		Pair:   pair.Key(),
		Series: series,
		Trend:  Classify(series),
	}
	if len(series) > 0 {
		last := series[len(series)-1]
		view.Last = &last
	}
	return view, nil
}

func (s *ExchangeService) Sparkline(ctx context.Context, rawPair string, width, height float64) (*model.Sparkline, error) {
	if width < minSparklineSide || height < minSparklineSide || width > maxSparklineSide || height > maxSparklineSide {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}

	view, err := s.History(ctx, rawPair)
	if err != nil {
		return nil, err
	}

	points := SparklinePoints(view.Series, width, height, sparklinePadding)
	return &model.Sparkline{
		Pair:   view.Pair,
		Trend:  view.Trend,
		Width:  width,
		Height: height,
		Points: points,
		Path:   SparklinePath(points),
	}, nil
}
