package counter

import "time"

// Table: sequence_counters. One live row per key (e.g. "invoice:2026"),
// incremented atomically by the repository.
type Counter struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `gorm:"column:counter_key;size:64;not null;uniqueIndex:ux_counters_key"`
	Seq       int64     `gorm:"column:seq;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Counter) TableName() string { return "sequence_counters" }
