package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/swipe-core/internal/backup"
	"github.com/oggyb/swipe-core/internal/matching"
	"github.com/oggyb/swipe-core/internal/notify"
)

// Maintenance resets daily counters and purges expired views.
func Maintenance(svc *matching.Service, every time.Duration, log *slog.Logger) Job {
	return Job{
		Name:  "maintenance",
		Every: every,
		Run: func(ctx context.Context) error {
			rep, err := svc.RunMaintenance(ctx)
			if rep.CountersReset > 0 || rep.ViewsPurged > 0 {
				log.Info("maintenance", "counters_reset", rep.CountersReset, "views_purged", rep.ViewsPurged)
			}
			return err
		},
	}
}

// Relay delivers pending like notifications.
func Relay(r *notify.Relay, every time.Duration) Job {
	return Job{
		Name:  "notify_relay",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := r.Run(ctx)
			return err
		},
	}
}

// Engagement nudges users who have been quiet for the cooldown.
func Engagement(e *notify.EngagementNotifier, every time.Duration) Job {
	return Job{
		Name:  "engagement",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := e.Run(ctx)
			return err
		},
	}
}

// Backup snapshots the database; the manager itself enforces the minimum
// interval between snapshots.
func Backup(m *backup.Manager, every time.Duration) Job {
	return Job{
		Name:  "backup",
		Every: every,
		Run: func(ctx context.Context) error {
			_, err := m.Run(ctx)
			return err
		},
	}
}
