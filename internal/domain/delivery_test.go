package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestDelivery_Migration_UniqueIndex_AndInsert(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Delivery{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasTable(&Delivery{}) {
		t.Fatalf("expected table %q to exist", Delivery{}.TableName())
	}
	if !m.HasIndex(&Delivery{}, "ux_channel_event") {
		t.Fatalf("expected composite index ux_channel_event to exist")
	}

	now := time.Now().UTC()
	rec := &Delivery{
		ID:        "d-1",
		Channel:   "messaging",
		EventID:   "evt-1",
		UserID:    "U1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("insert valid: %v", err)
	}

	var got Delivery
	if err := db.First(&got, "id = ?", "d-1").Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Channel != "messaging" || got.EventID != "evt-1" || got.UserID != "U1" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.ExpiresAt.After(got.CreatedAt) {
		t.Fatalf("ExpiresAt should be after CreatedAt: %v vs %v", got.ExpiresAt, got.CreatedAt)
	}

	// same (channel, event_id) must be rejected
	dup := &Delivery{
		ID:        "d-2",
		Channel:   "messaging",
		EventID:   "evt-1",
		UserID:    "U2",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected UNIQUE constraint violation on (channel, event_id)")
	}

	// same event id on another channel is fine
	other := &Delivery{
		ID:        "d-3",
		Channel:   "web",
		EventID:   "evt-1",
		UserID:    "U1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("insert on other channel: %v", err)
	}
}
