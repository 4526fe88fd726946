package model

// Grant is a coarse allow-list entry: a user's access to one
// organization, collection or folder scope.
type Grant struct {
	UserID    string `gorm:"column:user_id;primaryKey"`
	TenantID  string `gorm:"column:tenant_id;not null"`
	ScopeKind string `gorm:"column:scope_kind;primaryKey"`
	ScopeID   string `gorm:"column:scope_id;primaryKey"`
	Write     bool   `gorm:"column:write;not null;default:false"`
}

func (Grant) TableName() string {
	return "grants"
}
