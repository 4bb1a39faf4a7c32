package notify

import (
	"context"
	"log/slog"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/repository"
)

const defaultBatch = 100

// Relay pushes unsent like notifications to a Sender and marks them sent.
type Relay struct {
	store    *repository.Store
	sender   Sender
	reporter Reporter
	batch    int
	log      *slog.Logger
}

// RelayOption customizes a Relay.
type RelayOption func(*Relay)

func WithRelayReporter(r Reporter) RelayOption {
	return func(rl *Relay) {
		if r != nil {
			rl.reporter = r
		}
	}
}

func WithRelayBatch(n int) RelayOption {
	return func(rl *Relay) {
		if n > 0 {
			rl.batch = n
		}
	}
}

func NewRelay(appCtx *app.AppContext, sender Sender, opts ...RelayOption) *Relay {
	r := &Relay{
		store:    repository.NewStore(appCtx.DB),
		sender:   sender,
		reporter: nopReporter{},
		batch:    defaultBatch,
		log:      appCtx.Logger.With("component", "relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run delivers every pending notification once, oldest first.
//
// Behavior:
//   - A notification is marked sent only after Send succeeded.
//   - A failed send is logged and left pending for the next run.
//   - Storage errors stop the run; the count of sent messages is returned
//     either way.
func (r *Relay) Run(ctx context.Context) (int, error) {
	var sent int
	var afterID uint64
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		pending, err := r.store.Notifications.PendingAfter(ctx, afterID, r.batch)
		if err != nil {
			r.log.Error("load pending notifications failed", "err", err)
			return sent, err
		}
		if len(pending) == 0 {
			break
		}

		for _, n := range pending {
			afterID = n.ID
			msg := FromLike(n)
			err := r.sender.Send(ctx, msg)
			r.reporter.NotificationSent(string(msg.Kind), err)
			if err != nil {
				r.log.Warn("notification send failed", "id", n.ID, "to", n.ToID, "err", err)
				continue
			}
			if err := r.store.Notifications.MarkSent(ctx, n.ID); err != nil {
				r.log.Error("mark notification sent failed", "id", n.ID, "err", err)
				return sent, err
			}
			sent++
		}
	}
	if sent > 0 {
		r.log.Info("notifications relayed", "count", sent)
	}
	return sent, nil
}
