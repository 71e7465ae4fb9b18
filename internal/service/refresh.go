package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/internal/metrics"
	"favorite-rates-service/pkg/logger"
)

const defaultConcurrency = 8

// RefreshOrchestrator turns a list of favorite pairs into one upstream fetch
// per distinct base currency and resolves every pair against those answers.
type RefreshOrchestrator struct {
	repository  ports.RateRepository
	history     ports.HistoryStore
	formatter   *Formatter
	metrics     *metrics.Metrics
	log         *logger.Logger
	concurrency int
}

type Option func(*RefreshOrchestrator)

// WithConcurrency caps how many base fetches run at once.
func WithConcurrency(n int) Option {
	return func(o *RefreshOrchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func NewRefreshOrchestrator(
	repository ports.RateRepository,
	history ports.HistoryStore,
	formatter *Formatter,
	metrics *metrics.Metrics,
	log *logger.Logger,
	opts ...Option,
) *RefreshOrchestrator {
	o := &RefreshOrchestrator{
		repository:  repository,
		history:     history,
		formatter:   formatter,
		metrics:     metrics,
		log:         log,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type fetchOutcome struct {
	snapshot *model.RateSnapshot
	err      error
}

// Refresh returns one result per input pair, in input order. Upstream and
// per-pair failures become result states. The only error is ctx being done
// before every fetch has finished, in which case history is left untouched.
func (o *RefreshOrchestrator) Refresh(ctx context.Context, pairs []model.FavoritePair) ([]model.RefreshResult, error) {
	if len(pairs) == 0 {
		return []model.RefreshResult{}, nil
	}

	start := time.Now()
	defer func() {
		o.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	bases := distinctBases(pairs)
	o.log.Info("Refreshing favorites", "pairs", len(pairs), "bases", len(bases))

	outcomes := o.fetchAll(ctx, bases)

	if err := ctx.Err(); err != nil {
		o.log.Warn("Refresh abandoned before resolution", "error", err)
		return nil, err
	}

	// Resolution runs to completion once started so a late cancel cannot
	// leave some pairs appended and others not.
	resolveCtx := context.WithoutCancel(ctx)

	results := make([]model.RefreshResult, len(pairs))
	for i, pair := range pairs {
		results[i] = o.resolve(resolveCtx, pair, outcomes)
		o.metrics.RefreshPairsTotal.WithLabelValues(string(results[i].State)).Inc()
	}

	return results, nil
}

// fetchAll issues one fetch per base concurrently and waits for all of them.
// Each goroutine writes only its own slot and never fails the group.
func (o *RefreshOrchestrator) fetchAll(ctx context.Context, bases []model.Currency) map[model.Currency]fetchOutcome {
	slots := make([]fetchOutcome, len(bases))

	var g errgroup.Group
	g.SetLimit(o.concurrency)

	for i, base := range bases {
		g.Go(func() error {
			snapshot, err := o.repository.FetchRates(ctx, base)
			if err != nil {
				o.log.Error("Failed to fetch rates", "error", err, "base", base)
				o.metrics.UpstreamFetchTotal.WithLabelValues("failure").Inc()
			} else {
				o.metrics.UpstreamFetchTotal.WithLabelValues("success").Inc()
			}
			slots[i] = fetchOutcome{snapshot: snapshot, err: err}
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make(map[model.Currency]fetchOutcome, len(bases))
	for i, base := range bases {
		outcomes[base] = slots[i]
	}
	return outcomes
}

func (o *RefreshOrchestrator) resolve(ctx context.Context, pair model.FavoritePair, outcomes map[model.Currency]fetchOutcome) model.RefreshResult {
	outcome, found := outcomes[pair.Base]

	switch {
	case !found:
		return o.formatter.noData(pair)
	case outcome.err != nil:
		var upstreamErr *model.UpstreamError
		if errors.As(outcome.err, &upstreamErr) {
			return o.formatter.apiError(pair, upstreamErr.Kind)
		}
		return o.formatter.noData(pair)
	case outcome.snapshot == nil:
		return o.formatter.noData(pair)
	}

	rate, found := outcome.snapshot.Rate(pair.Target)
	if !found {
		o.log.Warn("Target missing from upstream response", "pair", pair.Key())
		return o.formatter.missingTarget(pair, outcome.snapshot, o.readSeries(ctx, pair.Key()))
	}

	if err := o.history.Append(ctx, pair.Key(), rate); err != nil {
		o.log.Error("Failed to append history", "error", err, "pair", pair.Key())
		o.metrics.HistoryAppends.WithLabelValues("error").Inc()
	} else {
		o.metrics.HistoryAppends.WithLabelValues("ok").Inc()
	}

	return o.formatter.fresh(pair, outcome.snapshot, rate, o.readSeries(ctx, pair.Key()))
}

func (o *RefreshOrchestrator) readSeries(ctx context.Context, pairKey string) []float64 {
	series, err := o.history.Series(ctx, pairKey)
	if err != nil {
		o.log.Error("Failed to read history", "error", err, "pair", pairKey)
		return []float64{}
	}
	return series
}

// distinctBases returns each base once, in first-seen order.
func distinctBases(pairs []model.FavoritePair) []model.Currency {
	seen := make(map[model.Currency]bool, len(pairs))
	bases := make([]model.Currency, 0, len(pairs))
	for _, p := range pairs {
		if seen[p.Base] {
			continue
		}
		seen[p.Base] = true
		bases = append(bases, p.Base)
	}
	return bases
}
