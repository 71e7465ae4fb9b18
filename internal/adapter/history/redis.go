package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/logger"
)

const redisKeyPrefix = "rate_history:"

// appendScript does dedup, push and trim in one step so concurrent appends to
// the same key cannot interleave. A key holding anything other than a list of
// positive finite numbers is dropped and restarted, matching what Series
// accepts.
var appendScript = redis.NewScript(`
local key = KEYS[1]
local value = ARGV[1]
local capacity = tonumber(ARGV[2])

local kind = redis.call('TYPE', key).ok
if kind ~= 'none' and kind ~= 'list' then
	redis.call('DEL', key)
elseif kind == 'list' then
	local items = redis.call('LRANGE', key, 0, -1)
	for _, item in ipairs(items) do
		local n = tonumber(item)
		if n == nil or n ~= n or n <= 0 or n == math.huge then
			redis.call('DEL', key)
			break
		end
	end
end

local last = redis.call('LINDEX', key, -1)
if last and tonumber(last) == tonumber(value) then
	return 0
end

redis.call('RPUSH', key, value)
redis.call('LTRIM', key, -capacity, -1)
return 1
`)

type RedisStore struct {
	client   *redis.Client
	capacity int
	log      *logger.Logger
}

// NewRedisStore keeps one list per pair on client. The caller owns the client.
func NewRedisStore(client *redis.Client, capacity int, log *logger.Logger) *RedisStore {
	if capacity <= 0 {
		capacity = model.MaxPoints
	}
	return &RedisStore{client: client, capacity: capacity, log: log}
}

func (s *RedisStore) Append(ctx context.Context, pairKey string, rate float64) error {
	if err := validateRate(rate); err != nil {
		return err
	}

	value := strconv.FormatFloat(rate, 'g', -1, 64)
	added, err := appendScript.Run(ctx, s.client, []string{redisKey(pairKey)}, value, s.capacity).Int()
	if err != nil {
		return fmt.Errorf("append series: %w", err)
	}

	if added == 0 {
		s.log.Debug("History append skipped, same as last", "pair", pairKey, "rate", rate)
	} else {
		s.log.Debug("History appended", "pair", pairKey, "rate", rate)
	}
	return nil
}

func (s *RedisStore) Series(ctx context.Context, pairKey string) ([]float64, error) {
	items, err := s.client.LRange(ctx, redisKey(pairKey), 0, -1).Result()
	if err != nil {
		if strings.HasPrefix(err.Error(), "WRONGTYPE") {
			s.log.Warn("Ignoring corrupted history entry", "pair", pairKey, "error", err)
			return []float64{}, nil
		}
		return nil, fmt.Errorf("read series: %w", err)
	}

	series := make([]float64, 0, len(items))
	for _, item := range items {
		v, err := parsePoint(item)
		if err != nil {
			s.log.Warn("Ignoring corrupted history entry", "pair", pairKey, "error", err)
			return []float64{}, nil
		}
		series = append(series, v)
	}
	return series, nil
}

func (s *RedisStore) Last(ctx context.Context, pairKey string) (float64, bool, error) {
	series, err := s.Series(ctx, pairKey)
	if err != nil {
		return 0, false, err
	}
	if len(series) == 0 {
		return 0, false, nil
	}
	return series[len(series)-1], true, nil
}

func (s *RedisStore) Clear(ctx context.Context, pairKey string) error {
	if err := s.client.Del(ctx, redisKey(pairKey)).Err(); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}
	return nil
}

func redisKey(pairKey string) string {
	return redisKeyPrefix + pairKey
}
