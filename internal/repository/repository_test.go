package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/db/dbtest"
	"github.com/oggyb/swipe-core/internal/repository"
)

var base = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newProfile(id int64, city string, trust int, created time.Time) *db.Profile {
	return &db.Profile{
		TelegramID:   id,
		UserID:       fmt.Sprintf("uid-%d", id),
		Name:         "user",
		Age:          25,
		Gender:       "female",
		TargetGender: "male",
		Bio:          "Люблю горы и море",
		City:         city,
		IsActive:     true,
		TrustScore:   trust,
		ReferralCode: fmt.Sprintf("REF%d", id),
		CreatedAt:    created,
	}
}

func seed(t *testing.T, gdb *gorm.DB, profiles ...*db.Profile) *repository.Store {
	t.Helper()
	store := repository.NewStore(gdb)
	for _, p := range profiles {
		require.NoError(t, store.Profiles.Create(context.Background(), p))
	}
	return store
}

func TestProfiles_CollectionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := seed(t, dbtest.New(t), newProfile(1, "Томск", 50, base))

	got, err := store.Profiles.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got.Interests)
	assert.Empty(t, got.Interests)
	assert.Empty(t, got.Photos)

	require.NoError(t, store.Profiles.ReplaceCollections(ctx, 1, []string{"IT", "Музыка", "IT"}, []string{"p2", "p1"}))
	got, err = store.Profiles.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"IT", "Музыка"}, got.Interests)
	assert.Equal(t, []string{"p2", "p1"}, got.Photos)

	_, err = store.Profiles.GetByTelegramID(ctx, 99)
	assert.True(t, repository.IsNotFound(err))
}

func TestProfiles_UpdateEditableKeepsCounters(t *testing.T) {
	ctx := context.Background()
	p := newProfile(1, "Томск", 77, base)
	p.ZodiacSign = "Лев"
	store := seed(t, dbtest.New(t), p)

	upd := newProfile(1, "Омск", 0, base)
	upd.Name = "renamed"
	require.NoError(t, store.Profiles.UpdateEditable(ctx, upd))

	got, err := store.Profiles.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "Омск", got.City)
	assert.Equal(t, "", got.ZodiacSign)
	assert.Equal(t, 77, got.TrustScore)
}

func TestProfiles_FindCandidates(t *testing.T) {
	ctx := context.Background()
	inactive := newProfile(6, "Томск", 99, base)
	inactive.IsActive = false
	store := seed(t, dbtest.New(t),
		newProfile(1, "Томск", 50, base),
		newProfile(2, "Томск", 60, base.Add(-time.Hour)),
		newProfile(3, "Томск", 60, base),
		newProfile(4, "Томск", 40, base),
		newProfile(5, "Омск", 90, base),
		inactive,
	)

	q := repository.CandidateQuery{RequesterID: 1, Cities: []string{"Томск"}, ViewedSince: base.Add(-24 * time.Hour), Limit: 10}

	got, err := store.Profiles.FindCandidates(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 4}, ids(got))

	// viewed inside the window hides; liked hides forever
	_, err = store.Views.Record(ctx, 1, 3, base.Add(-time.Hour), 24*time.Hour)
	require.NoError(t, err)
	_, err = store.Likes.Create(ctx, 1, 4, base.Add(-48*time.Hour))
	require.NoError(t, err)

	got, err = store.Profiles.FindCandidates(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))

	q.Limit = 0
	got, err = store.Profiles.FindCandidates(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfiles_ResetDailyCounters(t *testing.T) {
	ctx := context.Background()
	stale := newProfile(1, "Томск", 50, base)
	stale.LikesToday, stale.SuperLikesToday = 25, 3
	stale.LastLikeReset = base.Add(-26 * time.Hour)
	fresh := newProfile(2, "Томск", 50, base)
	fresh.LikesToday = 4
	fresh.LastLikeReset = db.StartOfDay(base).Add(time.Minute)
	store := seed(t, dbtest.New(t), stale, fresh)

	n, err := store.Profiles.ResetDailyCounters(ctx, db.StartOfDay(base), base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Profiles.ResetDailyCounters(ctx, db.StartOfDay(base), base)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	p1, _ := store.Profiles.GetByTelegramID(ctx, 1)
	p2, _ := store.Profiles.GetByTelegramID(ctx, 2)
	assert.Equal(t, 0, p1.LikesToday)
	assert.Equal(t, 0, p1.SuperLikesToday)
	assert.Equal(t, 4, p2.LikesToday)
}

func TestViews_RecordWindowAndPurge(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))
	window := 24 * time.Hour

	created, err := store.Views.Record(ctx, 1, 2, base, window)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Views.Record(ctx, 1, 2, base.Add(time.Hour), window)
	require.NoError(t, err)
	assert.False(t, created, "duplicate within window is a no-op")

	created, err = store.Views.Record(ctx, 1, 2, base.Add(25*time.Hour), window)
	require.NoError(t, err)
	assert.True(t, created, "stale record restarts the window")

	var count int64
	store.DB().Model(&db.ViewRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)

	n, err := store.Views.PurgeOlderThan(ctx, base.Add(26*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestViews_IncrementCount(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	require.NoError(t, store.Views.IncrementCount(ctx, 1, 2, base))
	require.NoError(t, store.Views.IncrementCount(ctx, 1, 2, base.Add(time.Minute)))
	require.NoError(t, store.Views.IncrementCount(ctx, 3, 2, base))

	n, err := store.Views.Count(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	viewers, err := store.Views.CountViewersSince(ctx, 2, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), viewers)
}

func TestLikes_IdempotentAndMatches(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	created, err := store.Likes.Create(ctx, 1, 2, base)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.Likes.Create(ctx, 1, 2, base)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, store.Likes.UpsertSuperLike(ctx, 1, 2, base))
	var like db.Like
	require.NoError(t, store.DB().First(&like).Error)
	assert.True(t, like.IsSuperLike)

	ok, err := store.Likes.CreateMatch(ctx, 9, 3, base)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Likes.CreateMatch(ctx, 3, 9, base)
	require.NoError(t, err)
	assert.False(t, ok)

	matches, err := store.Likes.MatchesOf(ctx, 9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(3), matches[0].User1ID)
	assert.Equal(t, int64(9), matches[0].User2ID)

	n, err := store.Likes.CountReceived(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNotifications_MarkSentMonotonic(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	n := &db.LikeNotification{FromID: 1, ToID: 2, CreatedAt: base}
	require.NoError(t, store.Notifications.Create(ctx, n))

	pending, err := store.Notifications.PendingFor(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, store.Notifications.MarkSent(ctx, n.ID))
	require.NoError(t, store.Notifications.MarkSent(ctx, n.ID))

	pending, err = store.Notifications.PendingFor(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.True(t, repository.IsNotFound(store.Notifications.MarkSent(ctx, 999)))
}

func TestReports_ResolveOnceAndList(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	for i := 0; i < 5; i++ {
		rep := &db.Report{FromID: 1, ReportedID: 2, Reason: "spam", Status: db.ReportPending, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Reports.Create(ctx, rep))
	}

	ok, err := store.Reports.Resolve(ctx, 1, repository.Resolution{Status: db.ReportRejected, AdminID: 7, At: base})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Reports.Resolve(ctx, 1, repository.Resolution{Status: db.ReportResolved, AdminID: 7, At: base})
	require.NoError(t, err)
	assert.False(t, ok)

	rep, err := store.Reports.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, db.ReportRejected, rep.Status)
	require.NotNil(t, rep.AdminID)
	assert.Equal(t, int64(7), *rep.AdminID)

	page, next, err := store.Reports.List(ctx, db.ReportPending, nil, 3)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []uint64{5, 4, 3}, reportIDs(page))

	page, next, err = store.Reports.List(ctx, db.ReportPending, next, 3)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []uint64{2}, reportIDs(page))

	bad := "%%"
	_, _, err = store.Reports.List(ctx, "", &bad, 3)
	assert.Error(t, err)
}

func TestBlocks_UpsertGetDelete(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	b, err := store.Blocks.Get(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, b)

	until := base.Add(7 * 24 * time.Hour)
	require.NoError(t, store.Blocks.Upsert(ctx, &db.Block{TelegramID: 5, BanType: db.Ban7Days, BlockedUntil: &until, BlockedAt: base}))
	require.NoError(t, store.Blocks.Upsert(ctx, &db.Block{TelegramID: 5, BanType: db.BanPermanent, BlockedAt: base}))

	b, err = store.Blocks.Get(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, db.BanPermanent, b.BanType)
	assert.Nil(t, b.BlockedUntil)

	n, err := store.Blocks.Count(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := store.Blocks.Delete(ctx, 5)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestBlocks_ListAndCountSkipEndedBans(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	ended := base.Add(-time.Hour)
	later := base.Add(time.Hour)
	require.NoError(t, store.Blocks.Upsert(ctx, &db.Block{TelegramID: 1, BanType: db.Ban7Days, BlockedUntil: &ended, BlockedAt: base.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, store.Blocks.Upsert(ctx, &db.Block{TelegramID: 2, BanType: db.Ban7Days, BlockedUntil: &later, BlockedAt: base.Add(-time.Minute)}))
	require.NoError(t, store.Blocks.Upsert(ctx, &db.Block{TelegramID: 3, BanType: db.BanPermanent, BlockedAt: base}))

	blocks, err := store.Blocks.List(ctx, base, 10, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, int64(3), blocks[0].TelegramID)
	assert.Equal(t, int64(2), blocks[1].TelegramID)

	n, err := store.Blocks.Count(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Blocks.Count(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStats_Increment(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	require.NoError(t, store.Stats.Increment(ctx, 1, base, db.StatLikesGiven))
	require.NoError(t, store.Stats.Increment(ctx, 1, base, db.StatLikesGiven))
	require.NoError(t, store.Stats.Increment(ctx, 1, base, db.StatViewsReceived))
	require.NoError(t, store.Stats.Increment(ctx, 1, base.Add(24*time.Hour), db.StatLikesGiven))
	assert.Error(t, store.Stats.Increment(ctx, 1, base, db.StatKind(42)))

	today, err := store.Stats.Get(ctx, 1, base)
	require.NoError(t, err)
	assert.Equal(t, 2, today.LikesGiven)
	assert.Equal(t, 1, today.ViewsReceived)

	empty, err := store.Stats.Get(ctx, 1, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.LikesGiven)
	assert.Equal(t, "2026-05-09", empty.Date)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))

	err := store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Likes.Create(ctx, 1, 2, base); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	exists, err := store.Likes.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, exists)
}

func ids(ps []db.Profile) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.TelegramID
	}
	return out
}

func reportIDs(rs []db.Report) []uint64 {
	out := make([]uint64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
