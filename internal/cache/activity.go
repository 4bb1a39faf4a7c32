package cache

import (
	"context"
	"fmt"
	"time"
)

// ActivityTracker remembers when a user was last active or last nudged.
// Keys expire after the cooldown, so presence of a key means "recent".
type ActivityTracker struct {
	cache    *RedisCache
	cooldown time.Duration
}

func NewActivityTracker(c *RedisCache, cooldown time.Duration) *ActivityTracker {
	return &ActivityTracker{cache: c, cooldown: cooldown}
}

func activityKey(userID int64) string { return fmt.Sprintf("activity:%d", userID) }

// Touch records activity of userID at now.
func (a *ActivityTracker) Touch(ctx context.Context, userID int64, now time.Time) error {
	return a.cache.Client.Set(ctx, activityKey(userID), now.Unix(), a.cooldown).Err()
}

// RecentlyActive reports whether userID was touched within the cooldown.
func (a *ActivityTracker) RecentlyActive(ctx context.Context, userID int64) (bool, error) {
	n, err := a.cache.Client.Exists(ctx, activityKey(userID)).Result()
	return n > 0, err
}
