package matching

import (
	"context"
	"errors"
	"time"

	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/logger"
)

// MaintenanceReport summarizes one maintenance pass.
type MaintenanceReport struct {
	CountersReset int64 `json:"counters_reset"`
	ViewsPurged   int64 `json:"views_purged"`
}

// PurgeExpiredViews deletes view records older than the view window.
func (s *Service) PurgeExpiredViews(ctx context.Context) (int64, error) {
	n, err := s.store.Views.PurgeOlderThan(ctx, s.now().Add(-s.rules.ViewWindow))
	if err != nil {
		return 0, svcErr.Storage("purge views", err)
	}
	return n, nil
}

// RunMaintenance runs the daily reset sweep and the view purge. Both steps
// are attempted even when one fails; the errors are joined.
func (s *Service) RunMaintenance(ctx context.Context) (MaintenanceReport, error) {
	start := time.Now()
	var rep MaintenanceReport

	reset, resetErr := s.ResetIfNewDay(ctx)
	purged, purgeErr := s.PurgeExpiredViews(ctx)
	rep.CountersReset, rep.ViewsPurged = reset, purged

	err := errors.Join(resetErr, purgeErr)
	if err != nil {
		s.log.Error("maintenance failed", "err", err)
	}
	s.log.Debug("maintenance done", "reset", reset, "purged", purged, logger.Since(start))
	return rep, err
}
