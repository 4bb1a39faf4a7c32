package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/utils/pagination"
)

// ReportRepository provides data access for user reports.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(database *gorm.DB) *ReportRepository {
	return &ReportRepository{db: database}
}

func (r *ReportRepository) Create(ctx context.Context, rep *db.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

// Get loads one report; gorm.ErrRecordNotFound when missing.
func (r *ReportRepository) Get(ctx context.Context, id uint64) (*db.Report, error) {
	var rep db.Report
	if err := r.db.WithContext(ctx).First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

// Resolution is the admin decision applied to a pending report.
type Resolution struct {
	Status  db.ReportStatus
	Action  string
	AdminID int64
	At      time.Time
}

// Resolve finalizes a report only while it is still pending.
//
// Behavior:
//   - The UPDATE is guarded by status = 'pending', so a report leaves
//     pending at most once even under concurrent admins.
//   - Returns false when nothing was updated (missing or already final);
//     callers use Get to tell the two apart.
func (r *ReportRepository) Resolve(ctx context.Context, id uint64, res Resolution) (bool, error) {
	adminID := res.AdminID
	at := res.At
	out := r.db.WithContext(ctx).
		Model(&db.Report{}).
		Where("id = ? AND status = ?", id, db.ReportPending).
		UpdateColumns(map[string]any{
			"status":       res.Status,
			"admin_action": res.Action,
			"admin_id":     &adminID,
			"resolved_at":  &at,
		})
	return out.RowsAffected > 0, out.Error
}

// List returns reports, optionally filtered by status.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.List(ctx, db.ReportPending, nil, 20) // first 20 pending reports
func (r *ReportRepository) List(
	ctx context.Context,
	status db.ReportStatus,
	paginationToken *string,
	limit int,
) ([]db.Report, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&db.Report{}).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if !cursor.IsZero() {
		ts := cursor.CreatedAt()
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", ts, ts, cursor.ID)
	}

	var reports []db.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(reports) > limit {
		last := reports[limit-1]
		token, _ := pagination.Encode(pagination.After(last.ID, last.CreatedAt))
		nextToken = &token
		reports = reports[:limit]
	}
	return reports, nextToken, nil
}

// CountByStatus counts reports in one status.
func (r *ReportRepository) CountByStatus(ctx context.Context, status db.ReportStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
