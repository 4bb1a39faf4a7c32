package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/swipe-core/internal/errors"
)

func TestQuota_FreeLikesRollOver(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for id := int64(1); id <= 27; id++ {
		e.register(t, "Томск", id)
	}

	for to := int64(2); to <= 26; to++ {
		_, err := e.svc.Like(ctx, 1, to)
		require.NoError(t, err, "like %d", to)
	}

	ok, err := e.svc.CanLike(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.svc.Like(ctx, 1, 27)
	assert.ErrorIs(t, err, svcErr.ErrQuotaExceeded)

	// repeating an existing like is still answered when out of quota
	res, err := e.svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)

	e.clock.Advance(12 * time.Hour)
	ok, err = e.svc.CanLike(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	q, err := e.svc.GetQuota(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, q.LikesToday)
	assert.Equal(t, 25, q.LikesLeft())

	_, err = e.svc.Like(ctx, 1, 27)
	require.NoError(t, err)
}

func TestQuota_SuperLikes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for id := int64(1); id <= 8; id++ {
		e.register(t, "Томск", id)
	}

	for to := int64(2); to <= 6; to++ {
		_, err := e.svc.SuperLike(ctx, 1, to)
		require.NoError(t, err)
	}
	_, err := e.svc.SuperLike(ctx, 1, 7)
	assert.ErrorIs(t, err, svcErr.ErrQuotaExceeded)

	_, err = e.svc.ActivatePremium(ctx, 1, 0)
	require.NoError(t, err)

	q, err := e.svc.GetQuota(ctx, 1)
	require.NoError(t, err)
	assert.True(t, q.Premium)
	assert.Equal(t, 15, q.SuperLikesLimit)
	assert.Equal(t, 999999, q.LikesLimit)
	assert.Equal(t, 10, q.SuperLikesLeft())

	_, err = e.svc.SuperLike(ctx, 1, 7)
	require.NoError(t, err)
}

func TestResetIfNewDay_Idempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2)

	n, err := e.svc.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.clock.Advance(24 * time.Hour)
	n, err = e.svc.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = e.svc.ResetIfNewDay(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPremium_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1)

	ok, err := e.svc.IsPremium(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	until, err := e.svc.ActivatePremium(ctx, 1, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), until)

	ok, err = e.svc.IsPremium(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	e.clock.Advance(2 * time.Hour)
	ok, err = e.svc.IsPremium(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	p := e.profile(t, 1)
	assert.False(t, p.IsPremium)
	assert.Nil(t, p.PremiumUntil)

	_, err = e.svc.ActivatePremium(ctx, 42, 0)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}
