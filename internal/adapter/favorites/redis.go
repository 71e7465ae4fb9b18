package favorites

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

const favoritesKey = "favorites"

// RedisStore keeps favorite pair keys in one redis set.
type RedisStore struct {
	client *redis.Client
	key    string
	log    *logger.Logger
}

func NewRedisStore(client *redis.Client, log *logger.Logger) *RedisStore {
	return newRedisStore(client, favoritesKey, log)
}

func newRedisStore(client *redis.Client, key string, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, key: key, log: log}
}

// List returns stored pairs ordered by key, skipping members that do not parse.
func (s *RedisStore) List(ctx context.Context) ([]model.FavoritePair, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	pairs := make([]model.FavoritePair, 0, len(members))
	for _, member := range members {
		pair, err := model.ParsePair(member)
		if err != nil {
			s.log.Warn("Skipping malformed favorite", "pair", member, "error", err)
			continue
		}
		pairs = append(pairs, pair)
	}

	model.SortPairs(pairs)
	return pairs, nil
}

func (s *RedisStore) Add(ctx context.Context, pair model.FavoritePair) error {
	if err := s.client.SAdd(ctx, s.key, pair.Key()).Err(); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, pair model.FavoritePair) error {
	if err := s.client.SRem(ctx, s.key, pair.Key()).Err(); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
