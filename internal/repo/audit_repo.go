// Package repo implements the persistence layer, backed by GORM. This file
// provides the audit log: append-only rows, one per answered message.
//
// Functions:
//
//   - InsertAudit(ctx, db, rec) -> error
//     Inserts a row, filling ID and CreatedAt when empty.
//
//   - CountAudit(ctx, db, userID) -> (int64, error)
//     Counts rows, for one user or all users when userID is "".
//
//   - ListAuditPage(ctx, db, userID, offset, limit) -> []domain.AuditRecord, error
//     Newest first.
//
//   - AuditStats(ctx, db) -> (count, latest, error)
//     Total rows and the newest CreatedAt, for status reporting.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saboothailand/support-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// InsertAudit stores rec. ID and CreatedAt are generated when unset.
func InsertAudit(ctx context.Context, db *gorm.DB, rec *domain.AuditRecord) error {
	if rec == nil {
		return errors.New("nil audit record")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Language == "" {
		rec.Language = string(domain.English)
	}
	return db.WithContext(ctx).Create(rec).Error
}

func auditScope(db *gorm.DB, userID string) *gorm.DB {
	q := db.Model(&domain.AuditRecord{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

// CountAudit returns the number of rows for userID, or for everyone when
// userID is empty.
func CountAudit(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := auditScope(db.WithContext(ctx), userID).Count(&total).Error
	return total, err
}

// ListAuditPage returns a page of rows ordered newest first. Use CountAudit
// for the total.
func ListAuditPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AuditRecord, error) {
	var out []domain.AuditRecord
	err := auditScope(db.WithContext(ctx), userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// AuditStats returns the row count and the newest CreatedAt (nil when the
// table is empty).
func AuditStats(ctx context.Context, db *gorm.DB) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.AuditRecord{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// avoid MAX() -> TEXT in SQLite
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
