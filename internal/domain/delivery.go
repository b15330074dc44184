package domain

import "time"

// Delivery records a webhook event that has already been processed, keyed by
// (channel, event_id). The messaging platform redelivers events on timeout;
// a row here means the reply was already sent and the redelivery is dropped.
type Delivery struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Channel   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_channel_event,priority:1"`
	EventID   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_channel_event,priority:2"`
	UserID    string    `gorm:"type:TEXT NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Delivery) TableName() string { return "deliveries" }
