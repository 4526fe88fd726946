package model

import "time"

// TrashItem records one trashed entity: an immutable JSON snapshot of
// its pre-delete state plus its original placement.
type TrashItem struct {
	ID          string     `gorm:"column:id;primaryKey"`
	TenantID    string     `gorm:"column:tenant_id;not null;index"`
	EntityKind  string     `gorm:"column:entity_kind;not null"`
	EntityID    string     `gorm:"column:entity_id;not null"`
	ParentKind  string     `gorm:"column:parent_kind"`
	ParentID    string     `gorm:"column:parent_id"`
	DeletedFrom string     `gorm:"column:deleted_from"`
	Snapshot    []byte     `gorm:"column:snapshot;type:jsonb"`
	DeletedBy   string     `gorm:"column:deleted_by;not null"`
	DeletedAt   time.Time  `gorm:"column:deleted_at"`
	Status      string     `gorm:"column:status;not null;default:pending"`
	RestoredBy  string     `gorm:"column:restored_by"`
	RestoredAt  *time.Time `gorm:"column:restored_at"`
}

func (TrashItem) TableName() string {
	return "trash_items"
}
