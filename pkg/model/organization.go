package model

import "time"

// Organization is the root of a tenant's hierarchy.
type Organization struct {
	ID          string    `gorm:"column:id;primaryKey"`
	TenantID    string    `gorm:"column:tenant_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Deleted     bool      `gorm:"column:deleted;not null;default:false"`
	LockVersion int       `gorm:"column:lock_version;not null;default:0"`
}

func (Organization) TableName() string {
	return "organizations"
}
