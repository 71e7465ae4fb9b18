package ports

import "context"

// HistoryStore owns the bounded per-pair rate series. Append is a no-op when
// the value equals the current last point; otherwise it appends and drops the
// oldest points beyond capacity. Readers never observe a partial append.
type HistoryStore interface {
	Append(ctx context.Context, pairKey string, rate float64) error
	Series(ctx context.Context, pairKey string) ([]float64, error)
	Last(ctx context.Context, pairKey string) (float64, bool, error)
	Clear(ctx context.Context, pairKey string) error
}
