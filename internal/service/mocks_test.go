package service

import (
	"context"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/internal/metrics"
	"favorite-rates-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var testLog = logger.NewLogger("error")

const testAsOf = "Tue, 18 Feb 2025 00:02:31 +0000"

type MockRateRepository struct {
	FetchRatesFunc func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error)
}

func (m *MockRateRepository) FetchRates(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
	return m.FetchRatesFunc(ctx, base)
}

type MockHistoryStore struct {
	AppendFunc func(ctx context.Context, pairKey string, rate float64) error
	SeriesFunc func(ctx context.Context, pairKey string) ([]float64, error)
	LastFunc   func(ctx context.Context, pairKey string) (float64, bool, error)
	ClearFunc  func(ctx context.Context, pairKey string) error
}

func (m *MockHistoryStore) Append(ctx context.Context, pairKey string, rate float64) error {
	return m.AppendFunc(ctx, pairKey, rate)
}

func (m *MockHistoryStore) Series(ctx context.Context, pairKey string) ([]float64, error) {
	return m.SeriesFunc(ctx, pairKey)
}

func (m *MockHistoryStore) Last(ctx context.Context, pairKey string) (float64, bool, error) {
	return m.LastFunc(ctx, pairKey)
}

func (m *MockHistoryStore) Clear(ctx context.Context, pairKey string) error {
	return m.ClearFunc(ctx, pairKey)
}

func snapshot(base model.Currency, rates map[model.Currency]float64) *model.RateSnapshot {
	return &model.RateSnapshot{Base: base, Rates: rates, AsOfUTC: testAsOf}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func newTestOrchestrator(repo ports.RateRepository, store ports.HistoryStore, opts ...Option) *RefreshOrchestrator {
	return NewRefreshOrchestrator(repo, store, NewFormatter(4, nil), newTestMetrics(), testLog, opts...)
}
