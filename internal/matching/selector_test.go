package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
)

func TestGetCandidates_ViewWindow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3)

	got, err := e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, telegramIDs(got))

	require.NoError(t, e.svc.Skip(ctx, 1, 2))
	got, err = e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, telegramIDs(got))

	e.clock.Advance(23 * time.Hour)
	got, err = e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, telegramIDs(got))

	e.clock.Advance(2 * time.Hour)
	got, err = e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, telegramIDs(got))
}

func TestGetCandidates_LikedNeverReturns(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3)

	_, err := e.svc.Like(ctx, 1, 3)
	require.NoError(t, err)

	e.clock.Advance(72 * time.Hour)
	got, err := e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, telegramIDs(got))

	// reads have no side effect on the graph
	got, err = e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, telegramIDs(got))
}

func TestGetCandidates_OrderAndLimit(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3)
	e.clock.Advance(time.Minute)
	e.register(t, "Томск", 4)

	// 3 and 4 end on 56 (like +1, match +5), 2 on 51; ties go to the newest
	_, err := e.svc.Like(ctx, 4, 3)
	require.NoError(t, err)
	_, err = e.svc.Like(ctx, 3, 4)
	require.NoError(t, err)
	_, err = e.svc.Like(ctx, 2, 3)
	require.NoError(t, err)

	got, err := e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2}, telegramIDs(got))

	got, err = e.svc.GetCandidates(ctx, 1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3}, telegramIDs(got))
	assert.Equal(t, 5, e.obs.served)
}

func TestGetCandidates_Radius(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1)
	e.register(t, "Новосибирск", 2)
	e.register(t, "Омск", 3)

	got, err := e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = e.svc.GetCandidates(ctx, 1, 300, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, telegramIDs(got))

	assert.Equal(t, 50.0, e.svc.RadiusFor(e.profile(t, 1), e.clock.Now()))
	_, err = e.svc.ActivatePremium(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 200.0, e.svc.RadiusFor(e.profile(t, 1), e.clock.Now()))
}

func TestGetCandidates_UnknownCitySearchesItself(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Урюпинск", 1, 2)
	e.register(t, "Томск", 3)

	got, err := e.svc.GetCandidates(ctx, 1, 5000, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, telegramIDs(got))
}

func TestGetCandidates_Requester(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3)

	_, err := e.svc.GetCandidates(ctx, 42, 0, 0)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	_, err = e.svc.Block(ctx, 2, db.Ban7Days, "spam")
	require.NoError(t, err)

	_, err = e.svc.GetCandidates(ctx, 2, 0, 0)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	got, err := e.svc.GetCandidates(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, telegramIDs(got))
}
