package cache

import (
	"context"
	"fmt"
	"time"
)

// Window is one fixed-window limit.
type Window struct {
	Name   string
	Limit  int64
	Length time.Duration
}

// RateLimiter counts requests per subject in fixed windows with INCR+EXPIRE.
type RateLimiter struct {
	cache   *RedisCache
	windows []Window
}

func NewRateLimiter(c *RedisCache, windows ...Window) *RateLimiter {
	return &RateLimiter{cache: c, windows: windows}
}

// Allow counts one request of subject at now and reports whether every
// window is still within its limit. A limit <= 0 disables that window.
func (l *RateLimiter) Allow(ctx context.Context, subject string, now time.Time) (bool, error) {
	allowed := true
	for _, w := range l.windows {
		if w.Limit <= 0 {
			continue
		}
		bucket := now.Unix() / int64(w.Length.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", w.Name, subject, bucket)

		pipe := l.cache.Client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, w.Length)
		if _, err := pipe.Exec(ctx); err != nil {
			return false, err
		}
		if incr.Val() > w.Limit {
			allowed = false
		}
	}
	return allowed, nil
}
