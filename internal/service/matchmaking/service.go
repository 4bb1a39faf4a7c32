// Package matchmaking exposes matching.Service over gRPC as
// matchmaking.v1.Matchmaking.
//
// User actions are bound to the x-telegram-id header when the caller sends
// it: a request acting for anyone else is refused with PermissionDenied.
// Without the header the request body is trusted as is.
package matchmaking

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/oggyb/swipe-core/internal/api/matchmakingv1"
	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/db"
	svcErr "github.com/oggyb/swipe-core/internal/errors"
	"github.com/oggyb/swipe-core/internal/matching"
	"github.com/oggyb/swipe-core/internal/server"
)

// Service implements the Matchmaking gRPC API.
// Each method parses the request, calls the matching core and maps domain
// errors to gRPC status codes with svcErr.Map.
type Service struct {
	appCtx   *app.AppContext
	core     *matching.Service
	activity *cache.ActivityTracker
	log      *slog.Logger
}

var _ pb.MatchmakingServer = (*Service)(nil)

// NewService creates the gRPC facade. Calls made by a user refresh their
// activity mark when activity is set, which holds back engagement reminders.
func NewService(appCtx *app.AppContext, core *matching.Service, activity *cache.ActivityTracker) *Service {
	return &Service{
		appCtx:   appCtx,
		core:     core,
		activity: activity,
		log:      appCtx.Logger.With("component", "grpc"),
	}
}

func (s *Service) touch(ctx context.Context, userID int64) {
	if s.activity == nil || userID <= 0 {
		return
	}
	if err := s.activity.Touch(ctx, userID, s.appCtx.Now()); err != nil {
		s.log.Warn("activity touch failed", "user", userID, "err", err)
	}
}

// actor resolves the acting user of a request that claims claimed.
func (s *Service) actor(ctx context.Context, claimed int64) (int64, error) {
	caller, ok, err := server.CallerFrom(ctx)
	if err != nil || !ok {
		return claimed, err
	}
	if claimed != 0 && claimed != caller {
		s.log.Warn("actor mismatch", "header", caller, "body", claimed)
		return 0, status.Error(codes.PermissionDenied, "cannot act for another user")
	}
	return caller, nil
}

func (s *Service) CreateOrUpdateProfile(ctx context.Context, req *pb.CreateOrUpdateProfileRequest) (*pb.ProfileResponse, error) {
	s.log.Debug("CreateOrUpdateProfile called", "telegram_id", req.TelegramID)

	p, err := s.core.CreateOrUpdateProfile(ctx, toDraft(req))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, p.TelegramID)
	return &pb.ProfileResponse{Profile: toProfile(p)}, nil
}

func (s *Service) GetProfile(ctx context.Context, req *pb.UserRequest) (*pb.ProfileResponse, error) {
	p, err := s.core.GetProfile(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ProfileResponse{Profile: toProfile(p)}, nil
}

// GetCandidates returns the candidate feed of the requester, each card with
// the compatibility of the requester with the candidate.
//
// Behavior:
//   - Radius and limit fall back to the requester's defaults when zero.
//   - Serving a card does not mark it viewed; clients call Present.
//
// Example:
//
//	client.GetCandidates(ctx, &pb.GetCandidatesRequest{TelegramID: 42})
func (s *Service) GetCandidates(ctx context.Context, req *pb.GetCandidatesRequest) (*pb.GetCandidatesResponse, error) {
	s.log.Debug("GetCandidates called", "requester", req.TelegramID, "radius", req.RadiusKm, "limit", req.Limit)

	if req.RadiusKm < 0 || req.Limit < 0 {
		return nil, svcErr.InvalidArgument("radius_km and limit must not be negative")
	}
	candidates, err := s.core.GetCandidates(ctx, req.TelegramID, req.RadiusKm, req.Limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	requester, err := s.core.GetProfile(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, req.TelegramID)

	resp := &pb.GetCandidatesResponse{Candidates: make([]*pb.Candidate, len(candidates))}
	for i := range candidates {
		resp.Candidates[i] = &pb.Candidate{
			Profile:       toProfile(&candidates[i]),
			Compatibility: toCompatibility(s.core.ScoreProfiles(requester, &candidates[i])),
		}
	}

	s.log.Debug("GetCandidates result", "count", len(resp.Candidates))
	return resp, nil
}

func (s *Service) Present(ctx context.Context, req *pb.PairRequest) (*pb.Empty, error) {
	from, err := s.actor(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	if err := s.core.Present(ctx, from, req.ToID); err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, from)
	return &pb.Empty{}, nil
}

func (s *Service) Skip(ctx context.Context, req *pb.PairRequest) (*pb.Empty, error) {
	from, err := s.actor(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	if err := s.core.Skip(ctx, from, req.ToID); err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, from)
	return &pb.Empty{}, nil
}

// Like records a like and reports whether it completed a match.
// Repeating a like is answered with duplicate=true and changes nothing.
func (s *Service) Like(ctx context.Context, req *pb.PairRequest) (*pb.LikeResponse, error) {
	s.log.Debug("Like called", "from", req.FromID, "to", req.ToID)

	from, err := s.actor(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	res, err := s.core.Like(ctx, from, req.ToID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, from)
	return &pb.LikeResponse{Mutual: res.Mutual, Duplicate: res.Duplicate}, nil
}

func (s *Service) SuperLike(ctx context.Context, req *pb.PairRequest) (*pb.LikeResponse, error) {
	s.log.Debug("SuperLike called", "from", req.FromID, "to", req.ToID)

	from, err := s.actor(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	res, err := s.core.SuperLike(ctx, from, req.ToID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, from)
	return &pb.LikeResponse{Mutual: res.Mutual, Duplicate: res.Duplicate}, nil
}

func (s *Service) Score(ctx context.Context, req *pb.PairRequest) (*pb.ScoreResponse, error) {
	res, err := s.core.Score(ctx, req.FromID, req.ToID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ScoreResponse{Compatibility: toCompatibility(res)}, nil
}

func (s *Service) Report(ctx context.Context, req *pb.ReportRequest) (*pb.ReportResponse, error) {
	s.log.Debug("Report called", "from", req.FromID, "reported", req.ReportedID)

	from, err := s.actor(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	rep, err := s.core.Report(ctx, from, req.ReportedID, req.Reason)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, from)
	return &pb.ReportResponse{Report: toReport(rep)}, nil
}

func (s *Service) GetPendingNotifications(ctx context.Context, req *pb.UserRequest) (*pb.NotificationsResponse, error) {
	pending, err := s.core.GetPendingNotifications(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.NotificationsResponse{Notifications: make([]*pb.Notification, len(pending))}
	for i := range pending {
		n := &pending[i]
		resp.Notifications[i] = &pb.Notification{
			ID:            n.ID,
			From:          toProfile(&n.From),
			IsMutual:      n.IsMutual,
			IsSuperLike:   n.IsSuperLike,
			CreatedAt:     n.CreatedAt,
			Compatibility: toCompatibility(n.Compatibility),
		}
	}
	return resp, nil
}

func (s *Service) MarkNotificationSent(ctx context.Context, req *pb.MarkNotificationSentRequest) (*pb.Empty, error) {
	if err := s.core.MarkNotificationSent(ctx, req.ID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.Empty{}, nil
}

func (s *Service) GetMatches(ctx context.Context, req *pb.UserRequest) (*pb.MatchesResponse, error) {
	matches, err := s.core.GetMatches(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.touch(ctx, req.TelegramID)

	resp := &pb.MatchesResponse{Matches: make([]*pb.Match, len(matches))}
	for i := range matches {
		resp.Matches[i] = &pb.Match{
			ID:        matches[i].MatchID,
			Partner:   toProfile(&matches[i].Partner),
			CreatedAt: matches[i].CreatedAt,
		}
	}
	return resp, nil
}

func (s *Service) GetDailyStats(ctx context.Context, req *pb.UserRequest) (*pb.DailyStatsResponse, error) {
	st, err := s.core.GetDailyStats(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.DailyStatsResponse{
		Date:              st.Date,
		LikesGiven:        int64(st.LikesGiven),
		LikesReceived:     int64(st.LikesReceived),
		ViewsGiven:        int64(st.ViewsGiven),
		ViewsReceived:     int64(st.ViewsReceived),
		SuperLikesToday:   int64(st.SuperLikesToday),
		ProfileViewsToday: st.ProfileViewsToday,
	}, nil
}

func (s *Service) GetQuota(ctx context.Context, req *pb.UserRequest) (*pb.QuotaResponse, error) {
	q, err := s.core.GetQuota(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.QuotaResponse{
		Premium:         q.Premium,
		LikesToday:      q.LikesToday,
		LikesLimit:      q.LikesLimit,
		LikesLeft:       q.LikesLeft(),
		SuperLikesToday: q.SuperLikesToday,
		SuperLikesLimit: q.SuperLikesLimit,
		SuperLikesLeft:  q.SuperLikesLeft(),
	}, nil
}

// CountLikesReceived returns how many users liked the recipient, cache first.
func (s *Service) CountLikesReceived(ctx context.Context, req *pb.UserRequest) (*pb.CountResponse, error) {
	n, err := s.core.CountLikesReceived(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountResponse{Count: n}, nil
}

func (s *Service) ActivatePremium(ctx context.Context, req *pb.ActivatePremiumRequest) (*pb.ActivatePremiumResponse, error) {
	if req.Hours < 0 {
		return nil, svcErr.InvalidArgument("hours must not be negative")
	}
	until, err := s.core.ActivatePremium(ctx, req.TelegramID, time.Duration(req.Hours)*time.Hour)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.log.Info("premium activated", "telegram_id", req.TelegramID, "until", until)
	return &pb.ActivatePremiumResponse{PremiumUntil: until}, nil
}

// ListReports pages reports newest first.
//
// Behavior:
//   - status filters by pending, rejected or resolved; empty lists all.
//   - page_token is the next_page_token of the previous page.
func (s *Service) ListReports(ctx context.Context, req *pb.ListReportsRequest) (*pb.ListReportsResponse, error) {
	s.log.Debug("ListReports called", "status", req.Status, "token", req.PageToken)

	reports, next, err := s.core.ListReports(ctx, db.ReportStatus(req.Status), req.PageToken, req.Limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.ListReportsResponse{Reports: make([]*pb.Report, len(reports)), NextPageToken: next}
	for i := range reports {
		resp.Reports[i] = toReport(&reports[i])
	}
	return resp, nil
}

func (s *Service) ResolveReport(ctx context.Context, req *pb.ResolveReportRequest) (*pb.ReportResponse, error) {
	adminID, ok := server.AdminFrom(ctx)
	if !ok {
		return nil, svcErr.PermissionDenied("admin required")
	}
	rep, err := s.core.ResolveReport(ctx, req.ID, db.ReportStatus(req.Status), req.Action, adminID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.log.Info("report resolved", "report", req.ID, "status", rep.Status, "admin", adminID)
	return &pb.ReportResponse{Report: toReport(rep)}, nil
}

func (s *Service) BanFromReport(ctx context.Context, req *pb.ReportIDRequest) (*pb.ReportResponse, error) {
	adminID, ok := server.AdminFrom(ctx)
	if !ok {
		return nil, svcErr.PermissionDenied("admin required")
	}
	rep, err := s.core.BanFromReport(ctx, req.ID, adminID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.log.Info("reported user banned", "report", req.ID, "user", rep.ReportedID, "admin", adminID)
	return &pb.ReportResponse{Report: toReport(rep)}, nil
}

func (s *Service) BlockProfile(ctx context.Context, req *pb.BlockRequest) (*pb.BlockResponse, error) {
	b, err := s.core.Block(ctx, req.TelegramID, db.BanType(req.BanType), req.Reason)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.log.Info("profile blocked", "telegram_id", req.TelegramID, "ban", req.BanType)
	return &pb.BlockResponse{Block: toBlock(b)}, nil
}

func (s *Service) UnblockProfile(ctx context.Context, req *pb.UserRequest) (*pb.UnblockResponse, error) {
	removed, err := s.core.Unblock(ctx, req.TelegramID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnblockResponse{Removed: removed}, nil
}

func (s *Service) ListBlocks(ctx context.Context, req *pb.ListBlocksRequest) (*pb.ListBlocksResponse, error) {
	blocks, err := s.core.ListBlocks(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.ListBlocksResponse{Blocks: make([]*pb.Block, len(blocks))}
	for i := range blocks {
		resp.Blocks[i] = toBlock(&blocks[i])
	}
	return resp, nil
}

func (s *Service) SearchProfiles(ctx context.Context, req *pb.SearchProfilesRequest) (*pb.ProfilesResponse, error) {
	profiles, err := s.core.SearchProfiles(ctx, req.Query, req.Limit, req.Offset)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ProfilesResponse{Profiles: toProfiles(profiles)}, nil
}

func (s *Service) AdminStats(ctx context.Context, _ *pb.Empty) (*pb.AdminStatsResponse, error) {
	st, err := s.core.GetAdminStats(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.AdminStatsResponse{
		TotalUsers:     st.TotalUsers,
		ActiveUsers:    st.ActiveUsers,
		NewToday:       st.NewToday,
		PremiumUsers:   st.PremiumUsers,
		BlockedUsers:   st.BlockedUsers,
		LikesToday:     st.LikesToday,
		MatchesToday:   st.MatchesToday,
		PendingReports: st.PendingReports,
	}, nil
}
