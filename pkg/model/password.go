package model

import "time"

// Password is a credential entry. Secret holds packed ciphertext; the
// row never sees plaintext. URLs is a JSON-encoded string list.
type Password struct {
	ID             string    `gorm:"column:id;primaryKey"`
	TenantID       string    `gorm:"column:tenant_id;not null"`
	OrgID          string    `gorm:"column:org_id;not null;index"`
	CollectionID   string    `gorm:"column:collection_id;index"`
	FolderID       string    `gorm:"column:folder_id;index"`
	Name           string    `gorm:"column:name;not null"`
	Username       string    `gorm:"column:username"`
	Secret         []byte    `gorm:"column:secret;type:bytea"`
	URLs           string    `gorm:"column:urls"`
	Notes          string    `gorm:"column:notes"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
	LastModifiedAt time.Time `gorm:"column:last_modified_at"`
	Deleted        bool      `gorm:"column:deleted;not null;default:false"`
	LockVersion    int       `gorm:"column:lock_version;not null;default:0"`
}

func (Password) TableName() string {
	return "passwords"
}
