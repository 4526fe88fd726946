package model

import "time"

// Collection groups folders and passwords under one organization.
type Collection struct {
	ID          string    `gorm:"column:id;primaryKey"`
	TenantID    string    `gorm:"column:tenant_id;not null"`
	OrgID       string    `gorm:"column:org_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Deleted     bool      `gorm:"column:deleted;not null;default:false"`
	LockVersion int       `gorm:"column:lock_version;not null;default:0"`
}

func (Collection) TableName() string {
	return "collections"
}
