package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

// SQLiteStore persists each pair's series as one encoded row. Appends are
// read-modify-write inside a transaction; the mutex keeps writers from this
// process from racing each other for the sqlite write lock.
type SQLiteStore struct {
	db       *sql.DB
	mu       sync.Mutex
	capacity int
	log      *logger.Logger
}

func NewSQLiteStore(db *sql.DB, capacity int, log *logger.Logger) *SQLiteStore {
	if capacity <= 0 {
		capacity = model.MaxPoints
	}
	return &SQLiteStore{db: db, capacity: capacity, log: log}
}

func (s *SQLiteStore) Append(ctx context.Context, pairKey string, rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT series FROM rate_history WHERE pair_key = ?`, pairKey).Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read series: %w", err)
	}

	series := s.decode(pairKey, raw)
	next, changed := appendPoint(series, rate, s.capacity)
	if !changed {
		s.log.Debug("History append skipped, same as last", "pair", pairKey, "rate", rate)
		return nil
	}

	const upsert = `INSERT INTO rate_history (pair_key, series, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(pair_key) DO UPDATE SET series = excluded.series, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, pairKey, EncodeSeries(next)); err != nil {
		return fmt.Errorf("write series: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	s.log.Debug("History appended", "pair", pairKey, "rate", rate, "points", len(next))
	return nil
}

func (s *SQLiteStore) Series(ctx context.Context, pairKey string) ([]float64, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT series FROM rate_history WHERE pair_key = ?`, pairKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}
	return s.decode(pairKey, raw), nil
}

func (s *SQLiteStore) Last(ctx context.Context, pairKey string) (float64, bool, error) {
	series, err := s.Series(ctx, pairKey)
	if err != nil {
		return 0, false, err
	}
	if len(series) == 0 {
		return 0, false, nil
	}
	return series[len(series)-1], true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, pairKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM rate_history WHERE pair_key = ?`, pairKey); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}
	return nil
}

func (s *SQLiteStore) decode(pairKey, raw string) []float64 {
	series, err := DecodeSeries(raw)
	if err != nil {
		s.log.Warn("Ignoring corrupted history entry", "pair", pairKey, "error", err)
		return []float64{}
	}
	// A longer stored series (older capacity setting) is cut to the newest points.
	if len(series) > s.capacity {
		series = series[len(series)-s.capacity:]
	}
	return series
}
