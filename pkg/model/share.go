package model

// Share is a fine-grained overlay: a single collection or folder shared
// with a specific user.
type Share struct {
	EntityKind string `gorm:"column:entity_kind;primaryKey"`
	EntityID   string `gorm:"column:entity_id;primaryKey"`
	UserID     string `gorm:"column:user_id;primaryKey"`
	Write      bool   `gorm:"column:write;not null;default:false"`
}

func (Share) TableName() string {
	return "shares"
}
