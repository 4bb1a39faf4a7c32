package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/backup"
	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/db/dbtest"
	"github.com/oggyb/swipe-core/internal/logger"
	"github.com/oggyb/swipe-core/internal/matching"
)

func TestScheduler_RunsUntilCanceled(t *testing.T) {
	var fast, failing atomic.Int32
	s := NewScheduler(logger.Discard(),
		Job{Name: "fast", Every: 5 * time.Millisecond, Run: func(context.Context) error {
			fast.Add(1)
			return nil
		}},
		Job{Name: "failing", Every: 5 * time.Millisecond, Run: func(context.Context) error {
			failing.Add(1)
			return errors.New("boom")
		}},
		Job{Name: "disabled", Run: func(context.Context) error {
			t.Error("disabled job ran")
			return nil
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return fast.Load() >= 3 && failing.Load() >= 3 },
		time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RunOnceWithRealJobs(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.New(t)
	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)
	require.NoError(t, db.SeedMinimalTestData(gdb, now))

	appCtx := &app.AppContext{DB: gdb, Logger: logger.Discard(), Now: func() time.Time { return now }}
	svc := matching.NewService(appCtx, compatibility.NewDefault(appCtx.Logger))
	sink, err := backup.NewDirSink(t.TempDir())
	require.NoError(t, err)

	s := NewScheduler(logger.Discard(),
		Maintenance(svc, time.Minute, logger.Discard()),
		Backup(backup.NewManager(appCtx, sink), time.Hour),
		Job{Name: "broken", Every: time.Minute, Run: func(context.Context) error { return errors.New("boom") }},
	)

	err = s.RunOnce(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")

	names, err := sink.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{backup.Name(now)}, names)
}
