// Package repo implements the persistence layer, backed by GORM. This file
// records processed webhook events so redeliveries are answered once.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saboothailand/support-bot/internal/domain"
)

// ErrDuplicate indicates the (channel, event_id) pair was already claimed
// and has not expired.
var ErrDuplicate = errors.New("duplicate")

// ClaimDelivery marks an event as processed. It returns ErrDuplicate when an
// unexpired claim exists; an expired claim is replaced.
func ClaimDelivery(ctx context.Context, db *gorm.DB, channel, eventID, userID string, ttl time.Duration) (*domain.Delivery, error) {
	now := time.Now().UTC()
	rec := &domain.Delivery{
		ID:        uuid.NewString(),
		Channel:   channel,
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel = ? AND event_id = ? AND expires_at <= ?", channel, eventID, now).
			Delete(&domain.Delivery{}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredDeliveries deletes claims that expired before now and returns
// how many were removed.
func PurgeExpiredDeliveries(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Delivery{})
	return res.RowsAffected, res.Error
}

// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	low := strings.ToLower(err.Error())
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
