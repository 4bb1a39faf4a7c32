package notify

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/repository"
)

// Reminders are the engagement texts, one picked at random per message.
var Reminders = []string{
	"💫 Кто-то возможно ждет именно тебя! Зайди, проверь новые анкеты!",
	"🎯 Новые люди рядом! Не упусти шанс найти интересного собеседника!",
	"❤️ Твоя симпатия может быть онлайн прямо сейчас! Зайди проверить!",
	"✨ Магия случайностей ждет! Кого ты встретишь сегодня?",
	"🔍 Пора обновить ленту! Появились новые анкеты в твоем городе!",
	"🌟 Не пропусти свой шанс! Загляни в бот, возможно, тебя уже кто-то лайкнул!",
	"💞 Знакомства ждут! Зайди посмотреть, кто появился рядом с тобой!",
}

// EngagementNotifier nudges active users who have been quiet for longer
// than the activity cooldown.
type EngagementNotifier struct {
	store    *repository.Store
	activity *cache.ActivityTracker
	sender   Sender
	pool     *ants.Pool
	reporter Reporter
	batch    int
	now      func() time.Time
	pick     func(n int) int
	log      *slog.Logger
}

// EngagementOption customizes an EngagementNotifier.
type EngagementOption func(*EngagementNotifier)

func WithEngagementReporter(r Reporter) EngagementOption {
	return func(e *EngagementNotifier) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithPicker replaces the random reminder choice; pick(n) must return an
// index in [0, n).
func WithPicker(pick func(n int) int) EngagementOption {
	return func(e *EngagementNotifier) { e.pick = pick }
}

// NewEngagementNotifier wires the notifier. pool runs the sends; the caller
// owns and releases it.
func NewEngagementNotifier(appCtx *app.AppContext, activity *cache.ActivityTracker, sender Sender, pool *ants.Pool, opts ...EngagementOption) *EngagementNotifier {
	e := &EngagementNotifier{
		store:    repository.NewStore(appCtx.DB),
		activity: activity,
		sender:   sender,
		pool:     pool,
		reporter: nopReporter{},
		batch:    defaultBatch,
		now:      appCtx.Now,
		pick:     rand.Intn,
		log:      appCtx.Logger.With("component", "engagement"),
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewPool builds the worker pool used for fan-out.
func NewPool(size int, log *slog.Logger) (*ants.Pool, error) {
	if size <= 0 {
		size = 8
	}
	return ants.NewPool(size, ants.WithPanicHandler(func(p any) {
		log.Error("notification task panic", "panic", p)
	}))
}

// Run sends one reminder to every active profile without recent activity.
//
// Behavior:
//   - Recipients touched within the cooldown are skipped.
//   - A successful send touches the recipient, so the next reminder waits
//     a full cooldown.
//   - Sends run on the pool; Run waits for all of them.
//   - Returns the number of reminders sent.
func (e *EngagementNotifier) Run(ctx context.Context) (int, error) {
	var (
		wg      sync.WaitGroup
		sent    atomic.Int64
		afterID int64
	)

	for {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return int(sent.Load()), err
		}
		ids, err := e.store.Profiles.ActiveIDsAfter(ctx, afterID, e.batch)
		if err != nil {
			e.log.Error("load active profiles failed", "err", err)
			wg.Wait()
			return int(sent.Load()), err
		}
		if len(ids) == 0 {
			break
		}
		afterID = ids[len(ids)-1]

		for _, id := range ids {
			recent, err := e.activity.RecentlyActive(ctx, id)
			if err != nil {
				e.log.Warn("activity lookup failed", "user", id, "err", err)
				continue
			}
			if recent {
				continue
			}

			wg.Add(1)
			err = e.pool.Submit(func() {
				defer wg.Done()
				if e.remind(ctx, id) {
					sent.Add(1)
				}
			})
			if err != nil {
				wg.Done()
				e.log.Warn("reminder not scheduled", "user", id, "err", err)
			}
		}
	}

	wg.Wait()
	n := int(sent.Load())
	if n > 0 {
		e.log.Info("engagement reminders sent", "count", n)
	}
	return n, nil
}

func (e *EngagementNotifier) remind(ctx context.Context, userID int64) bool {
	msg := Message{
		To:        userID,
		Kind:      KindReminder,
		Text:      Reminders[e.pick(len(Reminders))],
		CreatedAt: e.now(),
	}
	err := e.sender.Send(ctx, msg)
	e.reporter.NotificationSent(string(KindReminder), err)
	if err != nil {
		e.log.Warn("reminder send failed", "user", userID, "err", err)
		return false
	}
	if err := e.activity.Touch(ctx, userID, e.now()); err != nil {
		e.log.Warn("activity touch failed", "user", userID, "err", err)
	}
	return true
}
