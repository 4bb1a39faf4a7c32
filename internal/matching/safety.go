package matching

import (
	"context"
	"strconv"
	"strings"

	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/repository"
	"github.com/oggyb/swipe-core/internal/utils/pagination"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxReasonLength = 512

	banFromReportAction = "banned 7 days"
)

// IsBlocked reports whether telegramID is currently banned.
//
// Behavior:
//   - A timed ban whose end has passed is removed and the profile is
//     reactivated before returning false.
//   - Permanent bans never expire.
func (s *Service) IsBlocked(ctx context.Context, telegramID int64) (bool, error) {
	b, err := s.store.Blocks.Get(ctx, telegramID)
	if err != nil {
		return false, svcErr.Storage("load block", err)
	}
	if b == nil {
		return false, nil
	}
	if b.BlockedUntil == nil || s.now().Before(*b.BlockedUntil) {
		return true, nil
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Blocks.Delete(ctx, telegramID); err != nil {
			return err
		}
		return tx.Profiles.SetActive(ctx, telegramID, true)
	})
	if err != nil {
		return false, svcErr.Storage("expire block", err)
	}
	s.log.Info("block expired", "user", telegramID, "ban_type", b.BanType)
	return false, nil
}

// Block bans telegramID and hides the profile. An existing ban is replaced.
func (s *Service) Block(ctx context.Context, telegramID int64, ban db.BanType, reason string) (*db.Block, error) {
	s.log.Debug("Block called", "user", telegramID, "ban_type", ban)
	if !ban.Valid() {
		return nil, svcErr.Validation("unknown ban type " + string(ban))
	}

	var out *db.Block
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		out, err = s.block(ctx, tx, telegramID, ban, reason)
		return err
	})
	if err != nil {
		return nil, s.txError("block", err)
	}
	s.log.Info("user blocked", "user", telegramID, "ban_type", ban)
	return out, nil
}

func (s *Service) block(ctx context.Context, tx *repository.Store, telegramID int64, ban db.BanType, reason string) (*db.Block, error) {
	p, err := s.loadProfile(ctx, tx, telegramID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	b := &db.Block{
		TelegramID: telegramID,
		UserID:     p.UserID,
		BanType:    ban,
		Reason:     truncate(reason, maxReasonLength),
		BlockedAt:  now,
	}
	if d, ok := ban.Duration(); ok {
		until := now.Add(d)
		b.BlockedUntil = &until
	}
	if err := tx.Blocks.Upsert(ctx, b); err != nil {
		return nil, err
	}
	if err := tx.Profiles.SetActive(ctx, telegramID, false); err != nil {
		return nil, err
	}
	return b, nil
}

// Unblock lifts the ban of telegramID and reactivates the profile. Returns
// false when there was no ban.
func (s *Service) Unblock(ctx context.Context, telegramID int64) (bool, error) {
	s.log.Debug("Unblock called", "user", telegramID)
	var removed bool
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if removed, err = tx.Blocks.Delete(ctx, telegramID); err != nil || !removed {
			return err
		}
		return tx.Profiles.SetActive(ctx, telegramID, true)
	})
	if err != nil {
		return false, svcErr.Storage("unblock", err)
	}
	return removed, nil
}

// Report files a pending complaint of fromID about reportedID.
func (s *Service) Report(ctx context.Context, fromID, reportedID int64, reason string) (*db.Report, error) {
	s.log.Debug("Report called", "from", fromID, "reported", reportedID)
	if err := s.requirePair(ctx, fromID, reportedID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, svcErr.Validation("report reason is required")
	}
	reported, err := s.loadProfile(ctx, s.store, reportedID)
	if err != nil {
		return nil, err
	}

	rep := &db.Report{
		FromID:         fromID,
		ReportedID:     reportedID,
		ReportedUserID: reported.UserID,
		Reason:         truncate(reason, maxReasonLength),
		Status:         db.ReportPending,
		CreatedAt:      s.now(),
	}
	if err := s.store.Reports.Create(ctx, rep); err != nil {
		s.log.Error("Report failed", "from", fromID, "reported", reportedID, "err", err)
		return nil, svcErr.Storage("create report", err)
	}
	s.log.Info("report filed", "id", rep.ID, "from", fromID, "reported", reportedID)
	return rep, nil
}

// ResolveReport moves a pending report to rejected or resolved.
//
// Behavior:
//   - Unknown id → ErrNotFound.
//   - A report that already left pending → ErrStateConflict; the stored
//     decision is never overwritten.
func (s *Service) ResolveReport(ctx context.Context, id uint64, status db.ReportStatus, action string, adminID int64) (*db.Report, error) {
	s.log.Debug("ResolveReport called", "id", id, "status", status, "admin", adminID)
	if status != db.ReportRejected && status != db.ReportResolved {
		return nil, svcErr.Validation("status must be rejected or resolved")
	}

	var out *db.Report
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		out, err = s.resolve(ctx, tx, id, repository.Resolution{
			Status:  status,
			Action:  action,
			AdminID: adminID,
			At:      s.now(),
		})
		return err
	})
	if err != nil {
		return nil, s.txError("resolve report", err)
	}
	return out, nil
}

// BanFromReport blocks the reported user for seven days and resolves the
// report, both or neither.
func (s *Service) BanFromReport(ctx context.Context, id uint64, adminID int64) (*db.Report, error) {
	s.log.Debug("BanFromReport called", "id", id, "admin", adminID)

	var out *db.Report
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		rep, err := tx.Reports.Get(ctx, id)
		if repository.IsNotFound(err) {
			return svcErr.NotFound("report " + strconv.FormatUint(id, 10))
		}
		if err != nil {
			return err
		}
		if rep.Status != db.ReportPending {
			return svcErr.Conflict("report " + strconv.FormatUint(id, 10) + " is " + string(rep.Status))
		}
		if _, err := s.block(ctx, tx, rep.ReportedID, db.Ban7Days, rep.Reason); err != nil {
			return err
		}
		out, err = s.resolve(ctx, tx, id, repository.Resolution{
			Status:  db.ReportResolved,
			Action:  banFromReportAction,
			AdminID: adminID,
			At:      s.now(),
		})
		return err
	})
	if err != nil {
		return nil, s.txError("ban from report", err)
	}
	s.log.Info("user banned from report", "report", id, "user", out.ReportedID, "admin", adminID)
	return out, nil
}

func (s *Service) resolve(ctx context.Context, tx *repository.Store, id uint64, res repository.Resolution) (*db.Report, error) {
	ok, err := tx.Reports.Resolve(ctx, id, res)
	if err != nil {
		return nil, err
	}
	rep, err := tx.Reports.Get(ctx, id)
	if repository.IsNotFound(err) {
		return nil, svcErr.NotFound("report " + strconv.FormatUint(id, 10))
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, svcErr.Conflict("report " + strconv.FormatUint(id, 10) + " is " + string(rep.Status))
	}
	return rep, nil
}

// ListReports pages reports newest first, optionally filtered by status.
// token is the opaque cursor returned by the previous page.
func (s *Service) ListReports(ctx context.Context, status db.ReportStatus, token *string, limit int) ([]db.Report, *string, error) {
	if status != "" && !status.Valid() {
		return nil, nil, svcErr.Validation("unknown report status " + string(status))
	}
	if token != nil {
		if _, err := pagination.Decode(*token); err != nil {
			return nil, nil, svcErr.Validation("invalid pagination token")
		}
	}
	reports, next, err := s.store.Reports.List(ctx, status, token, pageSize(limit))
	if err != nil {
		return nil, nil, svcErr.Storage("list reports", err)
	}
	return reports, next, nil
}

// ListBlocks pages active bans newest first.
func (s *Service) ListBlocks(ctx context.Context, limit, offset int) ([]db.Block, error) {
	blocks, err := s.store.Blocks.List(ctx, s.now(), pageSize(limit), max(offset, 0))
	if err != nil {
		return nil, svcErr.Storage("list blocks", err)
	}
	return blocks, nil
}

// SearchProfiles finds profiles by user_id, telegram id, or a name or
// username fragment.
func (s *Service) SearchProfiles(ctx context.Context, term string, limit, offset int) ([]db.Profile, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, svcErr.Validation("search term is required")
	}
	telegramID, _ := strconv.ParseInt(term, 10, 64)
	profiles, err := s.store.Profiles.Search(ctx, term, telegramID, pageSize(limit), max(offset, 0))
	if err != nil {
		return nil, svcErr.Storage("search profiles", err)
	}
	return profiles, nil
}

// AdminStats is the moderator dashboard summary.
type AdminStats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	NewToday       int64 `json:"new_today"`
	PremiumUsers   int64 `json:"premium_users"`
	BlockedUsers   int64 `json:"blocked_users"`
	LikesToday     int64 `json:"likes_today"`
	MatchesToday   int64 `json:"matches_today"`
	PendingReports int64 `json:"pending_reports"`
}

// GetAdminStats counts users, today's activity and the moderation backlog.
func (s *Service) GetAdminStats(ctx context.Context) (AdminStats, error) {
	dayStart := db.StartOfDay(s.now())

	counts, err := s.store.Profiles.Counts(ctx, dayStart)
	if err != nil {
		return AdminStats{}, svcErr.Storage("count profiles", err)
	}
	out := AdminStats{
		TotalUsers:   counts.Total,
		ActiveUsers:  counts.Active,
		NewToday:     counts.NewSince,
		PremiumUsers: counts.Premium,
	}
	if out.BlockedUsers, err = s.store.Blocks.Count(ctx, s.now()); err != nil {
		return AdminStats{}, svcErr.Storage("count blocks", err)
	}
	if out.LikesToday, err = s.store.Likes.CountSince(ctx, dayStart); err != nil {
		return AdminStats{}, svcErr.Storage("count likes", err)
	}
	if out.MatchesToday, err = s.store.Likes.CountMatchesSince(ctx, dayStart); err != nil {
		return AdminStats{}, svcErr.Storage("count matches", err)
	}
	if out.PendingReports, err = s.store.Reports.CountByStatus(ctx, db.ReportPending); err != nil {
		return AdminStats{}, svcErr.Storage("count reports", err)
	}
	return out, nil
}

// txError keeps domain errors raised inside a transaction and wraps the rest
// as storage failures.
func (s *Service) txError(op string, err error) error {
	if isDomainError(err) {
		return err
	}
	s.log.Error(op+" failed", "err", err)
	return svcErr.Storage(op, err)
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
