package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/swipe-core/internal/config"
)

const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikeCount generates Redis key for a user's received-like count
func (c *RedisCache) KeyForLikeCount(userID int64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// UpdateLikeCount stores the count and refreshes its TTL.
func (c *RedisCache) UpdateLikeCount(ctx context.Context, userID int64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, likeCountTTL).Err()
}

// GetLikeCount returns the cached count; ok is false on a cache miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID int64) (count int64, ok bool, err error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// incrIfCached increments KEYS[1] and refreshes its TTL (ARGV[1], seconds)
// only when the key exists. Returns 0 on a miss.
var incrIfCached = redis.NewScript(`
  if redis.call('EXISTS', KEYS[1]) == 0 then
    return 0
  end
  local n = redis.call('INCR', KEYS[1])
  redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
  return n
`)

// IncrLikeCount bumps a cached count only if it is already cached, so a
// missing key is never resurrected with a partial value.
func (c *RedisCache) IncrLikeCount(ctx context.Context, userID int64) error {
	key := c.KeyForLikeCount(userID)
	return incrIfCached.Run(ctx, c.Client, []string{key}, int64(likeCountTTL/time.Second)).Err()
}
