package db

import (
	"time"
)

// Profile is one user of the service. Every social edge references the
// profile by TelegramID.
//
// Interests and Photos are not columns: they live in the
// profile_interests / profile_photos side tables and are filled in by the
// repository. A profile without side rows has empty collections.
//
// Indexes:
//   - idx_profiles_search(city, is_active, trust_score DESC, created_at DESC)
//     Serves the candidate query: city IN (...) AND is_active ordered by trust.
type Profile struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	TelegramID       int64  `gorm:"uniqueIndex;not null"`
	UserID           string `gorm:"uniqueIndex;size:36;not null"`
	Username         string `gorm:"size:64"`
	Name             string `gorm:"size:64;not null"`
	Age              int    `gorm:"not null"`
	Gender           string `gorm:"size:16;not null"`
	TargetGender     string `gorm:"size:16;not null"`
	Bio              string `gorm:"size:2048;not null"`
	ZodiacSign       string `gorm:"size:32"`
	RelationshipGoal string `gorm:"size:64"`
	Lifestyle        string `gorm:"size:64"`
	Habits           string `gorm:"size:64"`
	City             string `gorm:"size:64;not null;index:idx_profiles_search,priority:1"`
	IsActive         bool   `gorm:"not null;index:idx_profiles_search,priority:2"`
	IsPremium        bool   `gorm:"not null"`
	PremiumUntil     *time.Time
	TrustScore       int `gorm:"not null;index:idx_profiles_search,priority:3,sort:desc"`
	LikesToday       int `gorm:"not null"`
	SuperLikesToday  int `gorm:"not null"`
	LastLikeReset    time.Time
	ReferralCode     string    `gorm:"uniqueIndex;size:16;not null"`
	ReferredBy       *int64    `gorm:"index"`
	CreatedAt        time.Time `gorm:"index:idx_profiles_search,priority:4,sort:desc"`
	UpdatedAt        time.Time

	Interests []string `gorm:"-"`
	Photos    []string `gorm:"-"`
}

// ProfileInterest is one interest tag of a profile. Composite PK makes the
// collection a set.
type ProfileInterest struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false"`
	Tag        string `gorm:"primaryKey;size:64"`
}

// ProfilePhoto is one media reference of a profile, ordered by Position.
type ProfilePhoto struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false"`
	Position   int    `gorm:"primaryKey;autoIncrement:false"`
	Ref        string `gorm:"size:255;not null"`
}

// ViewRecord excludes ViewedID from ViewerID's candidates while it is
// younger than the view window. Rows past the window are purged.
type ViewRecord struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ViewerID  int64     `gorm:"not null;uniqueIndex:uniq_view_pair,priority:1"`
	ViewedID  int64     `gorm:"not null;uniqueIndex:uniq_view_pair,priority:2"`
	CreatedAt time.Time `gorm:"index"`
}

// ProfileViewCount is the cumulative "who viewed me" counter. Never purged.
type ProfileViewCount struct {
	ViewerID   int64 `gorm:"primaryKey;autoIncrement:false"`
	ViewedID   int64 `gorm:"primaryKey;autoIncrement:false;index"`
	ViewCount  int   `gorm:"not null"`
	LastViewed time.Time
}

// Like is a directed like. One row per ordered pair; a super-like
// overwrites the flag of an existing row.
//
// Indexes:
//   - uniq_like_pair(from_id, to_id) for idempotency and reciprocity lookups.
//   - idx_likes_to(to_id) for "who liked me" counts.
type Like struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FromID      int64     `gorm:"not null;uniqueIndex:uniq_like_pair,priority:1"`
	ToID        int64     `gorm:"not null;uniqueIndex:uniq_like_pair,priority:2;index:idx_likes_to"`
	IsSuperLike bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
}

// Match is the symmetric fact that two users liked each other, stored once
// with User1ID < User2ID.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   int64     `gorm:"not null;uniqueIndex:uniq_match_pair,priority:1"`
	User2ID   int64     `gorm:"not null;uniqueIndex:uniq_match_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"index"`
}

// LikeNotification is the outbox record of a like. IsSent only ever goes
// from false to true; rows are never deleted.
type LikeNotification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FromID      int64     `gorm:"not null"`
	ToID        int64     `gorm:"not null;index:idx_notifications_pending,priority:1"`
	IsMutual    bool      `gorm:"not null"`
	IsSuperLike bool      `gorm:"not null"`
	IsSent      bool      `gorm:"not null;index:idx_notifications_pending,priority:2"`
	CreatedAt   time.Time `gorm:"index:idx_notifications_pending,priority:3"`
}

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportRejected ReportStatus = "rejected"
	ReportResolved ReportStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportRejected, ReportResolved:
		return true
	}
	return false
}

// Report is a user complaint. Status is write-once after leaving pending.
type Report struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement"`
	FromID         int64        `gorm:"not null;index"`
	ReportedID     int64        `gorm:"not null;index"`
	ReportedUserID string       `gorm:"size:36"`
	Reason         string       `gorm:"size:512;not null"`
	Status         ReportStatus `gorm:"size:16;not null;index:idx_reports_status_created,priority:1"`
	AdminAction    string       `gorm:"size:128"`
	AdminID        *int64
	CreatedAt      time.Time `gorm:"index:idx_reports_status_created,priority:2,sort:desc"`
	ResolvedAt     *time.Time
}

type BanType string

const (
	Ban7Days     BanType = "7days"
	Ban30Days    BanType = "30days"
	BanPermanent BanType = "permanent"
)

// Duration returns the ban length; ok is false for permanent bans.
func (b BanType) Duration() (d time.Duration, ok bool) {
	switch b {
	case Ban7Days:
		return 7 * 24 * time.Hour, true
	case Ban30Days:
		return 30 * 24 * time.Hour, true
	}
	return 0, false
}

// Valid reports whether b is a known ban type.
func (b BanType) Valid() bool {
	switch b {
	case Ban7Days, Ban30Days, BanPermanent:
		return true
	}
	return false
}

// Block hides a profile from everything. BlockedUntil is nil for permanent
// bans; expired rows are deleted when next checked.
type Block struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	TelegramID   int64   `gorm:"uniqueIndex;not null"`
	UserID       string  `gorm:"size:36"`
	BanType      BanType `gorm:"size:16;not null"`
	BlockedUntil *time.Time
	Reason       string `gorm:"size:512"`
	BlockedAt    time.Time
}

// DailyStats holds per-user counters for one UTC day (Date is YYYY-MM-DD).
type DailyStats struct {
	UserID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Date          string `gorm:"primaryKey;size:10"`
	LikesGiven    int    `gorm:"not null"`
	LikesReceived int    `gorm:"not null"`
	ViewsGiven    int    `gorm:"not null"`
	ViewsReceived int    `gorm:"not null"`
}

func (DailyStats) TableName() string { return "daily_stats" }

// StatKind names one DailyStats counter.
type StatKind int

const (
	StatLikesGiven StatKind = iota + 1
	StatLikesReceived
	StatViewsGiven
	StatViewsReceived
)

// Column returns the daily_stats column of k, or "" for an unknown kind.
func (k StatKind) Column() string {
	switch k {
	case StatLikesGiven:
		return "likes_given"
	case StatLikesReceived:
		return "likes_received"
	case StatViewsGiven:
		return "views_given"
	case StatViewsReceived:
		return "views_received"
	}
	return ""
}

// Referral links a new user to the owner of the referral code they used.
type Referral struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ReferrerID int64  `gorm:"not null;index"`
	ReferredID int64  `gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&Profile{}, &ProfileInterest{}, &ProfilePhoto{},
		&ViewRecord{}, &ProfileViewCount{},
		&Like{}, &Match{}, &LikeNotification{},
		&Report{}, &Block{}, &DailyStats{}, &Referral{},
	}
}

// DateKey formats t as the DailyStats date of its UTC day.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// StartOfDay returns midnight UTC of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
