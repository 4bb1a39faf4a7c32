package matchmaking

import (
	pb "github.com/oggyb/swipe-core/internal/api/matchmakingv1"
	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/matching"
)

func toProfile(p *db.Profile) *pb.Profile {
	if p == nil {
		return nil
	}
	return &pb.Profile{
		TelegramID:       p.TelegramID,
		UserID:           p.UserID,
		Username:         p.Username,
		Name:             p.Name,
		Age:              p.Age,
		Gender:           p.Gender,
		TargetGender:     p.TargetGender,
		Bio:              p.Bio,
		ZodiacSign:       p.ZodiacSign,
		RelationshipGoal: p.RelationshipGoal,
		Lifestyle:        p.Lifestyle,
		Habits:           p.Habits,
		City:             p.City,
		Interests:        nonNil(p.Interests),
		Photos:           nonNil(p.Photos),
		IsActive:         p.IsActive,
		IsPremium:        p.IsPremium,
		PremiumUntil:     p.PremiumUntil,
		TrustScore:       p.TrustScore,
		ReferralCode:     p.ReferralCode,
		ReferredBy:       p.ReferredBy,
		CreatedAt:        p.CreatedAt,
	}
}

func toProfiles(ps []db.Profile) []*pb.Profile {
	out := make([]*pb.Profile, len(ps))
	for i := range ps {
		out[i] = toProfile(&ps[i])
	}
	return out
}

func toDraft(r *pb.CreateOrUpdateProfileRequest) matching.Draft {
	return matching.Draft{
		TelegramID:       r.TelegramID,
		Username:         r.Username,
		Name:             r.Name,
		Age:              r.Age,
		Gender:           r.Gender,
		TargetGender:     r.TargetGender,
		Bio:              r.Bio,
		ZodiacSign:       r.ZodiacSign,
		RelationshipGoal: r.RelationshipGoal,
		Lifestyle:        r.Lifestyle,
		Habits:           r.Habits,
		City:             r.City,
		Interests:        r.Interests,
		Photos:           r.Photos,
		ReferralCode:     r.ReferralCode,
	}
}

func toCompatibility(r compatibility.Result) *pb.Compatibility {
	return &pb.Compatibility{
		Overall:     r.Overall,
		Interests:   r.Breakdown.Interests,
		Goals:       r.Breakdown.Goals,
		Lifestyle:   r.Breakdown.Lifestyle,
		Personality: r.Breakdown.Personality,
		Habits:      r.Breakdown.Habits,
		Description: r.Description,
		Level:       string(r.Level),
	}
}

func toReport(r *db.Report) *pb.Report {
	return &pb.Report{
		ID:             r.ID,
		FromID:         r.FromID,
		ReportedID:     r.ReportedID,
		ReportedUserID: r.ReportedUserID,
		Reason:         r.Reason,
		Status:         string(r.Status),
		AdminAction:    r.AdminAction,
		AdminID:        r.AdminID,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

func toBlock(b *db.Block) *pb.Block {
	return &pb.Block{
		TelegramID:   b.TelegramID,
		UserID:       b.UserID,
		BanType:      string(b.BanType),
		BlockedUntil: b.BlockedUntil,
		Reason:       b.Reason,
		BlockedAt:    b.BlockedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
