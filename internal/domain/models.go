package domain

import "time"

// AuditRecord is one answered exchange written to the audit log. Rows are
// append-only; the reply is stored with markup stripped.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: channel-specific user identifier; indexed for per-user lookups.
//   - Channel: "web" or "messaging" (enforced by DB constraint).
//   - Language: detected language of the user text.
//   - Path: which decision branch produced the reply (product, general, ...).
//   - UserText / BotText: the exchange itself.
//   - CreatedAt: insertion time, used for ordering and pagination.
type AuditRecord struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(128);not null;index:idx_audit_user"`
	Channel   string    `json:"channel"    gorm:"type:varchar(16);not null;check:channel IN ('web','messaging')"`
	Language  string    `json:"language"   gorm:"type:varchar(16);not null;default:'english'"`
	Path      string    `json:"path"       gorm:"type:varchar(16);not null"`
	UserText  string    `json:"user_text"  gorm:"type:text;not null"`
	BotText   string    `json:"bot_text"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_audit_created"`
}

// TableName returns the database table name for AuditRecord.
func (AuditRecord) TableName() string { return "audit_log" }
