package matchmakingv1

import "time"

type Empty struct{}

type Profile struct {
	TelegramID       int64      `json:"telegram_id"`
	UserID           string     `json:"user_id"`
	Username         string     `json:"username,omitempty"`
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	TargetGender     string     `json:"target_gender"`
	Bio              string     `json:"bio"`
	ZodiacSign       string     `json:"zodiac_sign,omitempty"`
	RelationshipGoal string     `json:"relationship_goal,omitempty"`
	Lifestyle        string     `json:"lifestyle,omitempty"`
	Habits           string     `json:"habits,omitempty"`
	City             string     `json:"city"`
	Interests        []string   `json:"interests"`
	Photos           []string   `json:"photos"`
	IsActive         bool       `json:"is_active"`
	IsPremium        bool       `json:"is_premium"`
	PremiumUntil     *time.Time `json:"premium_until,omitempty"`
	TrustScore       int        `json:"trust_score"`
	ReferralCode     string     `json:"referral_code"`
	ReferredBy       *int64     `json:"referred_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CreateOrUpdateProfileRequest carries the editable fields of a profile.
type CreateOrUpdateProfileRequest struct {
	TelegramID       int64    `json:"telegram_id"`
	Username         string   `json:"username,omitempty"`
	Name             string   `json:"name"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	TargetGender     string   `json:"target_gender"`
	Bio              string   `json:"bio"`
	ZodiacSign       string   `json:"zodiac_sign,omitempty"`
	RelationshipGoal string   `json:"relationship_goal,omitempty"`
	Lifestyle        string   `json:"lifestyle,omitempty"`
	Habits           string   `json:"habits,omitempty"`
	City             string   `json:"city,omitempty"`
	Interests        []string `json:"interests"`
	Photos           []string `json:"photos"`
	ReferralCode     string   `json:"referral_code,omitempty"`
}

type UserRequest struct {
	TelegramID int64 `json:"telegram_id"`
}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type GetCandidatesRequest struct {
	TelegramID int64   `json:"telegram_id"`
	RadiusKm   float64 `json:"radius_km,omitempty"`
	Limit      int     `json:"limit,omitempty"`
}

type Compatibility struct {
	Overall     int     `json:"overall"`
	Interests   float64 `json:"interests"`
	Goals       float64 `json:"goals"`
	Lifestyle   float64 `json:"lifestyle"`
	Personality float64 `json:"personality"`
	Habits      float64 `json:"habits"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
}

type Candidate struct {
	Profile       *Profile       `json:"profile"`
	Compatibility *Compatibility `json:"compatibility"`
}

type GetCandidatesResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

// PairRequest names an actor and a target.
type PairRequest struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
}

type LikeResponse struct {
	Mutual    bool `json:"mutual"`
	Duplicate bool `json:"duplicate"`
}

type ScoreResponse struct {
	Compatibility *Compatibility `json:"compatibility"`
}

type ReportRequest struct {
	FromID     int64  `json:"from_id"`
	ReportedID int64  `json:"reported_id"`
	Reason     string `json:"reason"`
}

type Report struct {
	ID             uint64     `json:"id"`
	FromID         int64      `json:"from_id"`
	ReportedID     int64      `json:"reported_id"`
	ReportedUserID string     `json:"reported_user_id"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	AdminAction    string     `json:"admin_action,omitempty"`
	AdminID        *int64     `json:"admin_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

type ReportResponse struct {
	Report *Report `json:"report"`
}

type Notification struct {
	ID            uint64         `json:"id"`
	From          *Profile       `json:"from"`
	IsMutual      bool           `json:"is_mutual"`
	IsSuperLike   bool           `json:"is_super_like"`
	CreatedAt     time.Time      `json:"created_at"`
	Compatibility *Compatibility `json:"compatibility"`
}

type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}

type MarkNotificationSentRequest struct {
	ID uint64 `json:"id"`
}

type Match struct {
	ID        uint64    `json:"id"`
	Partner   *Profile  `json:"partner"`
	CreatedAt time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Matches []*Match `json:"matches"`
}

type DailyStatsResponse struct {
	Date              string `json:"date"`
	LikesGiven        int64  `json:"likes_given"`
	LikesReceived     int64  `json:"likes_received"`
	ViewsGiven        int64  `json:"views_given"`
	ViewsReceived     int64  `json:"views_received"`
	SuperLikesToday   int64  `json:"super_likes_today"`
	ProfileViewsToday int64  `json:"profile_views_today"`
}

type QuotaResponse struct {
	Premium         bool `json:"premium"`
	LikesToday      int  `json:"likes_today"`
	LikesLimit      int  `json:"likes_limit"`
	LikesLeft       int  `json:"likes_left"`
	SuperLikesToday int  `json:"super_likes_today"`
	SuperLikesLimit int  `json:"super_likes_limit"`
	SuperLikesLeft  int  `json:"super_likes_left"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ActivatePremiumRequest struct {
	TelegramID int64 `json:"telegram_id"`
	// Hours of premium; zero means the default period.
	Hours int `json:"hours,omitempty"`
}

type ActivatePremiumResponse struct {
	PremiumUntil time.Time `json:"premium_until"`
}

type ListReportsRequest struct {
	Status    string  `json:"status,omitempty"`
	PageToken *string `json:"page_token,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

type ListReportsResponse struct {
	Reports       []*Report `json:"reports"`
	NextPageToken *string   `json:"next_page_token,omitempty"`
}

type ResolveReportRequest struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
	Action string `json:"action,omitempty"`
}

type ReportIDRequest struct {
	ID uint64 `json:"id"`
}

type Block struct {
	TelegramID   int64      `json:"telegram_id"`
	UserID       string     `json:"user_id"`
	BanType      string     `json:"ban_type"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	Reason       string     `json:"reason"`
	BlockedAt    time.Time  `json:"blocked_at"`
}

type BlockRequest struct {
	TelegramID int64  `json:"telegram_id"`
	BanType    string `json:"ban_type"`
	Reason     string `json:"reason"`
}

type BlockResponse struct {
	Block *Block `json:"block"`
}

type UnblockResponse struct {
	Removed bool `json:"removed"`
}

type ListBlocksRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type ListBlocksResponse struct {
	Blocks []*Block `json:"blocks"`
}

type SearchProfilesRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type ProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

type AdminStatsResponse struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	NewToday       int64 `json:"new_today"`
	PremiumUsers   int64 `json:"premium_users"`
	BlockedUsers   int64 `json:"blocked_users"`
	LikesToday     int64 `json:"likes_today"`
	MatchesToday   int64 `json:"matches_today"`
	PendingReports int64 `json:"pending_reports"`
}
