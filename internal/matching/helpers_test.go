package matching_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/db/dbtest"
	"github.com/oggyb/swipe-core/internal/logger"
	"github.com/oggyb/swipe-core/internal/matching"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recorder struct {
	mu       sync.Mutex
	swipes   map[string]int
	matches  int
	rejected []string
	served   int
}

func (r *recorder) Swiped(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swipes[action]++
}

func (r *recorder) Matched() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches++
}

func (r *recorder) ModerationRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

func (r *recorder) CandidatesServed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.served += n
}

type env struct {
	svc    *matching.Service
	clock  *clock
	obs    *recorder
	redis  *miniredis.Miniredis
	rdb    *cache.RedisCache
	appCtx *app.AppContext
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })

	clk := &clock{t: base}
	appCtx := &app.AppContext{
		DB:         dbtest.New(t),
		RedisCache: rdb,
		Logger:     logger.Discard(),
		Now:        clk.Now,
	}
	obs := &recorder{swipes: map[string]int{}}
	svc := matching.NewService(appCtx, compatibility.NewDefault(logger.Discard()), matching.WithObserver(obs))
	return &env{svc: svc, clock: clk, obs: obs, redis: mr, rdb: rdb, appCtx: appCtx}
}

func draft(id int64, city string) matching.Draft {
	return matching.Draft{
		TelegramID:   id,
		Username:     fmt.Sprintf("user%d", id),
		Name:         fmt.Sprintf("User %d", id),
		Age:          25,
		Gender:       "female",
		TargetGender: "male",
		Bio:          "Люблю музыку, горы и долгие прогулки",
		City:         city,
		Interests:    []string{"Музыка", "IT"},
		Photos:       []string{fmt.Sprintf("photo-%d", id)},
	}
}

func (e *env) register(t *testing.T, city string, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		_, err := e.svc.CreateOrUpdateProfile(context.Background(), draft(id, city))
		require.NoError(t, err)
	}
}

func (e *env) profile(t *testing.T, id int64) *db.Profile {
	t.Helper()
	p, err := e.svc.GetProfile(context.Background(), id)
	require.NoError(t, err)
	return p
}

func telegramIDs(ps []db.Profile) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.TelegramID
	}
	return out
}
