package matchmakingv1

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "matchmaking.v1.Matchmaking"

// MatchmakingServer is the server API of matchmaking.v1.Matchmaking.
type MatchmakingServer interface {
	CreateOrUpdateProfile(context.Context, *CreateOrUpdateProfileRequest) (*ProfileResponse, error)
	GetProfile(context.Context, *UserRequest) (*ProfileResponse, error)
	GetCandidates(context.Context, *GetCandidatesRequest) (*GetCandidatesResponse, error)
	Present(context.Context, *PairRequest) (*Empty, error)
	Skip(context.Context, *PairRequest) (*Empty, error)
	Like(context.Context, *PairRequest) (*LikeResponse, error)
	SuperLike(context.Context, *PairRequest) (*LikeResponse, error)
	Score(context.Context, *PairRequest) (*ScoreResponse, error)
	Report(context.Context, *ReportRequest) (*ReportResponse, error)
	GetPendingNotifications(context.Context, *UserRequest) (*NotificationsResponse, error)
	MarkNotificationSent(context.Context, *MarkNotificationSentRequest) (*Empty, error)
	GetMatches(context.Context, *UserRequest) (*MatchesResponse, error)
	GetDailyStats(context.Context, *UserRequest) (*DailyStatsResponse, error)
	GetQuota(context.Context, *UserRequest) (*QuotaResponse, error)
	CountLikesReceived(context.Context, *UserRequest) (*CountResponse, error)

	ActivatePremium(context.Context, *ActivatePremiumRequest) (*ActivatePremiumResponse, error)
	ListReports(context.Context, *ListReportsRequest) (*ListReportsResponse, error)
	ResolveReport(context.Context, *ResolveReportRequest) (*ReportResponse, error)
	BanFromReport(context.Context, *ReportIDRequest) (*ReportResponse, error)
	BlockProfile(context.Context, *BlockRequest) (*BlockResponse, error)
	UnblockProfile(context.Context, *UserRequest) (*UnblockResponse, error)
	ListBlocks(context.Context, *ListBlocksRequest) (*ListBlocksResponse, error)
	SearchProfiles(context.Context, *SearchProfilesRequest) (*ProfilesResponse, error)
	AdminStats(context.Context, *Empty) (*AdminStatsResponse, error)
}

// AdminMethods are the full names of the methods reserved to admins.
var AdminMethods = []string{
	FullMethod("ActivatePremium"),
	FullMethod("ListReports"),
	FullMethod("ResolveReport"),
	FullMethod("BanFromReport"),
	FullMethod("BlockProfile"),
	FullMethod("UnblockProfile"),
	FullMethod("ListBlocks"),
	FullMethod("SearchProfiles"),
	FullMethod("AdminStats"),
}

// FullMethod returns "/matchmaking.v1.Matchmaking/<name>".
func FullMethod(name string) string { return "/" + ServiceName + "/" + name }

func unary[Req, Resp any](name string, call func(MatchmakingServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MatchmakingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MatchmakingServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for matchmaking.v1.Matchmaking.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchmakingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateOrUpdateProfile", MatchmakingServer.CreateOrUpdateProfile),
		unary("GetProfile", MatchmakingServer.GetProfile),
		unary("GetCandidates", MatchmakingServer.GetCandidates),
		unary("Present", MatchmakingServer.Present),
		unary("Skip", MatchmakingServer.Skip),
		unary("Like", MatchmakingServer.Like),
		unary("SuperLike", MatchmakingServer.SuperLike),
		unary("Score", MatchmakingServer.Score),
		unary("Report", MatchmakingServer.Report),
		unary("GetPendingNotifications", MatchmakingServer.GetPendingNotifications),
		unary("MarkNotificationSent", MatchmakingServer.MarkNotificationSent),
		unary("GetMatches", MatchmakingServer.GetMatches),
		unary("GetDailyStats", MatchmakingServer.GetDailyStats),
		unary("GetQuota", MatchmakingServer.GetQuota),
		unary("CountLikesReceived", MatchmakingServer.CountLikesReceived),
		unary("ActivatePremium", MatchmakingServer.ActivatePremium),
		unary("ListReports", MatchmakingServer.ListReports),
		unary("ResolveReport", MatchmakingServer.ResolveReport),
		unary("BanFromReport", MatchmakingServer.BanFromReport),
		unary("BlockProfile", MatchmakingServer.BlockProfile),
		unary("UnblockProfile", MatchmakingServer.UnblockProfile),
		unary("ListBlocks", MatchmakingServer.ListBlocks),
		unary("SearchProfiles", MatchmakingServer.SearchProfiles),
		unary("AdminStats", MatchmakingServer.AdminStats),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterMatchmakingServer(s grpc.ServiceRegistrar, srv MatchmakingServer) {
	s.RegisterService(&ServiceDesc, srv)
}
