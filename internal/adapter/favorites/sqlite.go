package favorites

import (
	"context"
	"database/sql"
	"fmt"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

func NewSQLiteStore(db *sql.DB, log *logger.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

// List returns stored pairs ordered by key. Rows that no longer parse are
// skipped rather than failing the whole list.
func (s *SQLiteStore) List(ctx context.Context) ([]model.FavoritePair, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pair_key FROM favorites ORDER BY pair_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	pairs := make([]model.FavoritePair, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		pair, err := model.ParsePair(key)
		if err != nil {
			s.log.Warn("Skipping malformed favorite", "pair", key, "error", err)
			continue
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, pair model.FavoritePair) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO favorites (pair_key) VALUES (?)`, pair.Key()); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, pair model.FavoritePair) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE pair_key = ?`, pair.Key()); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
