package matchmakingv1

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls matchmaking.v1.Matchmaking with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOrUpdateProfile(ctx context.Context, in *CreateOrUpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "CreateOrUpdateProfile", in, opts)
}

func (c *Client) GetProfile(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "GetProfile", in, opts)
}

func (c *Client) GetCandidates(ctx context.Context, in *GetCandidatesRequest, opts ...grpc.CallOption) (*GetCandidatesResponse, error) {
	return invoke[GetCandidatesResponse](ctx, c, "GetCandidates", in, opts)
}

func (c *Client) Present(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "Present", in, opts)
}

func (c *Client) Skip(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "Skip", in, opts)
}

func (c *Client) Like(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*LikeResponse, error) {
	return invoke[LikeResponse](ctx, c, "Like", in, opts)
}

func (c *Client) SuperLike(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*LikeResponse, error) {
	return invoke[LikeResponse](ctx, c, "SuperLike", in, opts)
}

func (c *Client) Score(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*ScoreResponse, error) {
	return invoke[ScoreResponse](ctx, c, "Score", in, opts)
}

func (c *Client) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*ReportResponse, error) {
	return invoke[ReportResponse](ctx, c, "Report", in, opts)
}

func (c *Client) GetPendingNotifications(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*NotificationsResponse, error) {
	return invoke[NotificationsResponse](ctx, c, "GetPendingNotifications", in, opts)
}

func (c *Client) MarkNotificationSent(ctx context.Context, in *MarkNotificationSentRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "MarkNotificationSent", in, opts)
}

func (c *Client) GetMatches(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*MatchesResponse, error) {
	return invoke[MatchesResponse](ctx, c, "GetMatches", in, opts)
}

func (c *Client) GetDailyStats(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*DailyStatsResponse, error) {
	return invoke[DailyStatsResponse](ctx, c, "GetDailyStats", in, opts)
}

func (c *Client) GetQuota(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*QuotaResponse, error) {
	return invoke[QuotaResponse](ctx, c, "GetQuota", in, opts)
}

func (c *Client) CountLikesReceived(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	return invoke[CountResponse](ctx, c, "CountLikesReceived", in, opts)
}

func (c *Client) ActivatePremium(ctx context.Context, in *ActivatePremiumRequest, opts ...grpc.CallOption) (*ActivatePremiumResponse, error) {
	return invoke[ActivatePremiumResponse](ctx, c, "ActivatePremium", in, opts)
}

func (c *Client) ListReports(ctx context.Context, in *ListReportsRequest, opts ...grpc.CallOption) (*ListReportsResponse, error) {
	return invoke[ListReportsResponse](ctx, c, "ListReports", in, opts)
}

func (c *Client) ResolveReport(ctx context.Context, in *ResolveReportRequest, opts ...grpc.CallOption) (*ReportResponse, error) {
	return invoke[ReportResponse](ctx, c, "ResolveReport", in, opts)
}

func (c *Client) BanFromReport(ctx context.Context, in *ReportIDRequest, opts ...grpc.CallOption) (*ReportResponse, error) {
	return invoke[ReportResponse](ctx, c, "BanFromReport", in, opts)
}

func (c *Client) BlockProfile(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*BlockResponse, error) {
	return invoke[BlockResponse](ctx, c, "BlockProfile", in, opts)
}

func (c *Client) UnblockProfile(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UnblockResponse, error) {
	return invoke[UnblockResponse](ctx, c, "UnblockProfile", in, opts)
}

func (c *Client) ListBlocks(ctx context.Context, in *ListBlocksRequest, opts ...grpc.CallOption) (*ListBlocksResponse, error) {
	return invoke[ListBlocksResponse](ctx, c, "ListBlocks", in, opts)
}

func (c *Client) SearchProfiles(ctx context.Context, in *SearchProfilesRequest, opts ...grpc.CallOption) (*ProfilesResponse, error) {
	return invoke[ProfilesResponse](ctx, c, "SearchProfiles", in, opts)
}

func (c *Client) AdminStats(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AdminStatsResponse, error) {
	return invoke[AdminStatsResponse](ctx, c, "AdminStats", in, opts)
}
