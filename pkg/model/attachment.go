package model

import "time"

// Attachment references an externally stored blob by its opaque storage
// key. The vault never holds the bytes.
type Attachment struct {
	ID         string    `gorm:"column:id;primaryKey"`
	PasswordID string    `gorm:"column:password_id;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	MimeType   string    `gorm:"column:mime_type"`
	Size       int64     `gorm:"column:size"`
	StorageKey string    `gorm:"column:storage_key;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}
