package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"landledger/internal/ratelimit/models"
)

// slidingWindowScript trims the window, admits cost hits when they fit and
// returns {allowed, count, oldest_ms}. Running it as one script keeps the
// check-then-add atomic across server instances.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count + cost <= limit then
  for i = 1, cost do
    redis.call('ZADD', key, now, member .. ':' .. i)
  end
  count = count + cost
  allowed = 1
end
redis.call('PEXPIRE', key, window)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = now
if oldest[2] then
  oldestScore = tonumber(oldest[2])
end
return {allowed, count, oldestScore}
`)

// RedisBucketStore is a sliding-window limiter shared by every instance
// pointed at the same Redis.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		cost,
		strconv.FormatInt(now.UnixNano(), 10)+":"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis sliding window: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("redis sliding window: unexpected reply length %d", len(res))
	}

	resetAt := time.UnixMilli(res[2]).Add(window)
	result := &models.RateLimitResult{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: max(limit-int(res[1]), 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.Remaining = 0
		result.RetryAfter = retryAfter(now, resetAt)
	}
	return result, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// GetCurrentCount reports hits recorded since the last trim; the key expires
// one window after its latest hit.
func (s *RedisBucketStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	n, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
