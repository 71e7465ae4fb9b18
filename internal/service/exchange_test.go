package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"favorite-rates-service/internal/adapter/favorites"
	"favorite-rates-service/internal/domain/model"
)

func newTestExchangeService(repo *MockRateRepository) (*ExchangeService, *favorites.MemoryStore) {
	store := newHistory()
	favs := favorites.NewMemoryStore()
	orchestrator := newTestOrchestrator(repo, store)
	return NewExchangeService(repo, store, favs, orchestrator, testLog), favs
}

func TestExchangeService_Quote(t *testing.T) {
	testCases := []struct {
		name          string
		from          string
		to            string
		mockRepo      MockRateRepository
		expectedQuote *model.Quote
		expectedError error
	}{
		{
			name: "Success",
			from: "usd",
			to:   "rub",
			mockRepo: MockRateRepository{
				FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
					return snapshot(base, map[model.Currency]float64{"RUB": 90.5}), nil
				},
			},
			expectedQuote: &model.Quote{Base: "USD", Target: "RUB", Rate: 90.5, AsOfUTC: testAsOf},
		},
		{
			name:          "Invalid currency",
			from:          "US",
			to:            "RUB",
			mockRepo:      MockRateRepository{},
			expectedError: ErrInvalidCurrency,
		},
		{
			name: "Target not quoted",
			from: "USD",
			to:   "XYZ",
			mockRepo: MockRateRepository{
				FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
					return snapshot(base, map[model.Currency]float64{"RUB": 90.5}), nil
				},
			},
			expectedError: ErrRateNotFound,
		},
		{
			name: "Upstream failure",
			from: "USD",
			to:   "RUB",
			mockRepo: MockRateRepository{
				FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
					return nil, &model.UpstreamError{Base: base, Kind: "invalid-key"}
				},
			},
			expectedError: ErrExternalAPIFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestExchangeService(&tc.mockRepo)

			quote, err := svc.Quote(context.Background(), tc.from, tc.to)
			if tc.expectedError != nil {
				if !errors.Is(err, tc.expectedError) {
					t.Fatalf("expected error %v, got %v", tc.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(quote, tc.expectedQuote) {
				t.Errorf("expected %+v, got %+v", tc.expectedQuote, quote)
			}
		})
	}
}

func TestExchangeService_QuoteDoesNotRecordHistory(t *testing.T) {
	repo := &MockRateRepository{
		FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
			return snapshot(base, map[model.Currency]float64{"RUB": 90.5}), nil
		},
	}
	svc, _ := newTestExchangeService(repo)

	if _, err := svc.Quote(context.Background(), "USD", "RUB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.History(context.Background(), "USD->RUB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Series) != 0 || view.Last != nil {
		t.Errorf("expected empty history, got %+v", view)
	}
}

func TestExchangeService_RefreshFavorites(t *testing.T) {
	repo := &MockRateRepository{
		FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
			return snapshot(base, map[model.Currency]float64{"RUB": 90, "EUR": 0.9}), nil
		},
	}
	svc, favs := newTestExchangeService(repo)

	for _, raw := range []string{"USD->RUB", "EUR->RUB", "USD->EUR"} {
		p, _ := model.ParsePair(raw)
		if err := favs.Add(context.Background(), p); err != nil {
			t.Fatalf("add favorite: %v", err)
		}
	}

	results, err := svc.RefreshFavorites(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var keys []string
	for _, r := range results {
		keys = append(keys, r.Pair)
		if r.State != model.StateOK {
			t.Errorf("%s: expected ok, got %s", r.Pair, r.State)
		}
	}
	expected := []string{"EUR->RUB", "USD->EUR", "USD->RUB"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("expected %v, got %v", expected, keys)
	}
}

func TestExchangeService_History(t *testing.T) {
	rate := 90.0
	repo := &MockRateRepository{
		FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
			return snapshot(base, map[model.Currency]float64{"RUB": rate}), nil
		},
	}
	svc, _ := newTestExchangeService(repo)
	pairs := mustPairs(t, "USD->RUB")

	for _, r := range []float64{90, 92} {
		rate = r
		if _, err := svc.Refresh(context.Background(), pairs); err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}

	view, err := svc.History(context.Background(), " usd -> rub ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Pair != "USD->RUB" || view.Trend != model.TrendUp {
		t.Errorf("unexpected view %+v", view)
	}
	if view.Last == nil || *view.Last != 92 {
		t.Errorf("expected last 92, got %v", view.Last)
	}

	if _, err := svc.History(context.Background(), "USDRUB"); !errors.Is(err, ErrInvalidPair) {
		t.Errorf("expected ErrInvalidPair, got %v", err)
	}
}

func TestExchangeService_SparklineSpreadsPoints(t *testing.T) {
	rate := 90.0
	repo := &MockRateRepository{
		FetchRatesFunc: func(ctx context.Context, base model.Currency) (*model.RateSnapshot, error) {
			return snapshot(base, map[model.Currency]float64{"RUB": rate}), nil
		},
	}
	svc, _ := newTestExchangeService(repo)
	pairs := mustPairs(t, "USD->RUB")

	for _, r := range []float64{90, 92} {
		rate = r
		if _, err := svc.Refresh(context.Background(), pairs); err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}

	sparkline, err := svc.Sparkline(context.Background(), "USD->RUB", 13, 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sparkline.Points) != 2 {
		t.Fatalf("expected 2 points, got %v", sparkline.Points)
	}
	first, last := sparkline.Points[0], sparkline.Points[1]
	if first.X >= last.X || first.Y <= last.Y {
		t.Errorf("expected a rising line, got %v", sparkline.Points)
	}
	if sparkline.Path == "" {
		t.Error("expected a path")
	}
}

func TestExchangeService_Sparkline(t *testing.T) {
	repo := &MockRateRepository{}
	svc, _ := newTestExchangeService(repo)

	testCases := []struct {
		name          string
		pair          string
		width         float64
		height        float64
		expectedError error
	}{
		{"Zero width", "USD->RUB", 0, 40, ErrInvalidDimensions},
		{"Negative height", "USD->RUB", 100, -1, ErrInvalidDimensions},
		{"Too large", "USD->RUB", 100000, 40, ErrInvalidDimensions},
		{"Shorter than padding", "USD->RUB", 100, 10, ErrInvalidDimensions},
		{"Narrower than padding", "USD->RUB", 12, 40, ErrInvalidDimensions},
		{"Smallest plottable", "USD->RUB", 13, 13, nil},
		{"Bad pair", "USD", 100, 40, ErrInvalidPair},
		{"Empty history", "USD->RUB", 100, 40, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sparkline, err := svc.Sparkline(context.Background(), tc.pair, tc.width, tc.height)
			if tc.expectedError != nil {
				if !errors.Is(err, tc.expectedError) {
					t.Fatalf("expected error %v, got %v", tc.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sparkline.Points) != 0 || sparkline.Path != "" || sparkline.Trend != model.TrendUnknown {
				t.Errorf("expected empty sparkline, got %+v", sparkline)
			}
		})
	}
}
