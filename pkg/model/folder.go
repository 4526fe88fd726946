package model

import "time"

// Folder nests under an organization, optionally inside a collection and
// under a parent folder. Empty string means "no reference"; the direct
// parent is the most specific reference set.
type Folder struct {
	ID           string    `gorm:"column:id;primaryKey"`
	TenantID     string    `gorm:"column:tenant_id;not null"`
	OrgID        string    `gorm:"column:org_id;not null;index"`
	CollectionID string    `gorm:"column:collection_id;index"`
	ParentID     string    `gorm:"column:parent_id;index"`
	Name         string    `gorm:"column:name;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
	Deleted      bool      `gorm:"column:deleted;not null;default:false"`
	LockVersion  int       `gorm:"column:lock_version;not null;default:0"`
}

func (Folder) TableName() string {
	return "folders"
}
