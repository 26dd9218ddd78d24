package audit

import "time"

// Table: audit_entries. Append-only; rows are never updated or deleted.
type Entry struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID      string    `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_audit_entry_id" json:"entry_id"`
	Action       string    `gorm:"column:action;size:64;not null" json:"action"`
	ActorID      string    `gorm:"column:actor_id;size:32;not null" json:"actor_id"`
	ActorRole    string    `gorm:"column:actor_role;size:16;not null" json:"actor_role"`
	ResourceType string    `gorm:"column:resource_type;size:32;not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   string    `gorm:"column:resource_id;size:64;not null;index:idx_audit_resource" json:"resource_id"`
	Metadata     string    `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_entries" }
