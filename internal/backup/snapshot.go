// Package backup writes periodic gzip JSON snapshots of the database to a
// Sink and keeps only the most recent ones.
package backup

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/db"
)

// Snapshot is the full content of the store at one instant.
type Snapshot struct {
	CreatedAt     time.Time             `json:"created_at"`
	Profiles      []db.Profile          `json:"profiles"`
	Interests     []db.ProfileInterest  `json:"profile_interests"`
	Photos        []db.ProfilePhoto     `json:"profile_photos"`
	Views         []db.ViewRecord       `json:"view_records"`
	ViewCounts    []db.ProfileViewCount `json:"profile_view_counts"`
	Likes         []db.Like             `json:"likes"`
	Matches       []db.Match            `json:"matches"`
	Notifications []db.LikeNotification `json:"like_notifications"`
	Reports       []db.Report           `json:"reports"`
	Blocks        []db.Block            `json:"blocks"`
	DailyStats    []db.DailyStats       `json:"daily_stats"`
	Referrals     []db.Referral         `json:"referrals"`
}

// Capture reads every table inside one read transaction.
func Capture(ctx context.Context, gdb *gorm.DB, at time.Time) (*Snapshot, error) {
	s := &Snapshot{CreatedAt: at}
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targets := []struct {
			name string
			dst  any
		}{
			{"profiles", &s.Profiles},
			{"profile_interests", &s.Interests},
			{"profile_photos", &s.Photos},
			{"view_records", &s.Views},
			{"profile_view_counts", &s.ViewCounts},
			{"likes", &s.Likes},
			{"matches", &s.Matches},
			{"like_notifications", &s.Notifications},
			{"reports", &s.Reports},
			{"blocks", &s.Blocks},
			{"daily_stats", &s.DailyStats},
			{"referrals", &s.Referrals},
		}
		for _, t := range targets {
			if err := tx.Find(t.dst).Error; err != nil {
				return fmt.Errorf("read %s: %w", t.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Write encodes s as gzip-compressed JSON.
func Write(w io.Writer, s *Snapshot) error {
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(s); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return zw.Close()
}

// Read decodes a snapshot produced by Write.
func Read(r io.Reader) (*Snapshot, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer zr.Close()

	var s Snapshot
	if err := json.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
