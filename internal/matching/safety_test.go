package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/matching"
)

func TestBlock_TimedBanExpiresLazily(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2)

	b, err := e.svc.Block(ctx, 2, db.Ban7Days, "spam")
	require.NoError(t, err)
	require.NotNil(t, b.BlockedUntil)
	assert.Equal(t, base.Add(7*24*time.Hour), *b.BlockedUntil)
	assert.False(t, e.profile(t, 2).IsActive)

	blocked, err := e.svc.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.True(t, blocked)

	e.clock.Advance(7*24*time.Hour + time.Second)
	blocked, err = e.svc.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.True(t, e.profile(t, 2).IsActive)

	blocks, err := e.svc.ListBlocks(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestBlock_PermanentAndUnblock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1)

	_, err := e.svc.Block(ctx, 1, db.BanType("forever"), "x")
	assert.ErrorIs(t, err, svcErr.ErrValidation)
	_, err = e.svc.Block(ctx, 42, db.BanPermanent, "x")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	b, err := e.svc.Block(ctx, 1, db.BanPermanent, "x")
	require.NoError(t, err)
	assert.Nil(t, b.BlockedUntil)

	e.clock.Advance(1000 * 24 * time.Hour)
	blocked, err := e.svc.IsBlocked(ctx, 1)
	require.NoError(t, err)
	assert.True(t, blocked)

	removed, err := e.svc.Unblock(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, e.profile(t, 1).IsActive)

	removed, err = e.svc.Unblock(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReports_ResolveExactlyOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2)

	_, err := e.svc.Report(ctx, 1, 1, "self")
	assert.ErrorIs(t, err, svcErr.ErrValidation)
	_, err = e.svc.Report(ctx, 1, 2, "   ")
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	rep, err := e.svc.Report(ctx, 1, 2, "фейк")
	require.NoError(t, err)
	assert.Equal(t, db.ReportPending, rep.Status)
	assert.Equal(t, e.profile(t, 2).UserID, rep.ReportedUserID)

	_, err = e.svc.ResolveReport(ctx, rep.ID, db.ReportPending, "", 9)
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	got, err := e.svc.ResolveReport(ctx, rep.ID, db.ReportRejected, "no evidence", 9)
	require.NoError(t, err)
	assert.Equal(t, db.ReportRejected, got.Status)
	require.NotNil(t, got.AdminID)
	assert.Equal(t, int64(9), *got.AdminID)

	_, err = e.svc.ResolveReport(ctx, rep.ID, db.ReportResolved, "late", 10)
	assert.ErrorIs(t, err, svcErr.ErrStateConflict)
	_, err = e.svc.BanFromReport(ctx, rep.ID, 10)
	assert.ErrorIs(t, err, svcErr.ErrStateConflict)
	assert.True(t, e.profile(t, 2).IsActive)

	_, err = e.svc.ResolveReport(ctx, 9999, db.ReportResolved, "", 10)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
	_, err = e.svc.BanFromReport(ctx, 9999, 10)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestReports_BanFromReport(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2)

	rep, err := e.svc.Report(ctx, 1, 2, "спамит")
	require.NoError(t, err)

	got, err := e.svc.BanFromReport(ctx, rep.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, db.ReportResolved, got.Status)
	assert.NotEmpty(t, got.AdminAction)

	blocked, err := e.svc.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocks, err := e.svc.ListBlocks(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, db.Ban7Days, blocks[0].BanType)
	assert.Equal(t, "спамит", blocks[0].Reason)
}

func TestReports_ListPages(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3, 4)

	var ids []uint64
	for _, reported := range []int64{2, 3, 4} {
		rep, err := e.svc.Report(ctx, 1, reported, "spam")
		require.NoError(t, err)
		ids = append(ids, rep.ID)
		e.clock.Advance(time.Minute)
	}

	page, next, err := e.svc.ListReports(ctx, db.ReportPending, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, next, err = e.svc.ListReports(ctx, db.ReportPending, next, 2)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	bad := "not-a-cursor"
	_, _, err = e.svc.ListReports(ctx, "", &bad, 2)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
	_, _, err = e.svc.ListReports(ctx, "weird", nil, 2)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 3)

	_, err := e.svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	_, err = e.svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	_, err = e.svc.Report(ctx, 1, 3, "spam")
	require.NoError(t, err)
	_, err = e.svc.Block(ctx, 3, db.Ban30Days, "spam")
	require.NoError(t, err)
	_, err = e.svc.ActivatePremium(ctx, 1, 0)
	require.NoError(t, err)

	st, err := e.svc.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, matching.AdminStats{
		TotalUsers:     3,
		ActiveUsers:    2,
		NewToday:       3,
		PremiumUsers:   1,
		BlockedUsers:   1,
		LikesToday:     2,
		MatchesToday:   1,
		PendingReports: 1,
	}, st)
}

func TestSearchProfiles(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "Томск", 1, 2, 12)

	got, err := e.svc.SearchProfiles(ctx, "12", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, telegramIDs(got))

	got, err = e.svc.SearchProfiles(ctx, "User", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = e.svc.SearchProfiles(ctx, e.profile(t, 2).UserID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, telegramIDs(got))

	_, err = e.svc.SearchProfiles(ctx, " ", 0, 0)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}
