package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/vault-in-go/pkg/model"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

func (s *Store) CreateAttachment(a *store.Attachment) error {
	return s.db.Create(fromAttachment(a)).Error
}

func (s *Store) Attachment(id string) (*store.Attachment, error) {
	var row model.Attachment
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attachment %s", vault.ErrNotFound, id)
		}
		return nil, err
	}
	return toAttachment(&row), nil
}

func (s *Store) AttachmentsForPassword(passwordID string) ([]store.Attachment, error) {
	var rows []model.Attachment
	err := s.db.Where("password_id = ?", passwordID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attachments := make([]store.Attachment, 0, len(rows))
	for i := range rows {
		attachments = append(attachments, *toAttachment(&rows[i]))
	}
	return attachments, nil
}

func (s *Store) CreateGrant(g *store.Grant) error {
	return s.db.Create(&model.Grant{
		UserID:    g.UserID,
		TenantID:  g.TenantID,
		ScopeKind: g.ScopeKind.String(),
		ScopeID:   g.ScopeID,
		Write:     g.Write,
	}).Error
}

func (s *Store) GrantsForUser(tenantID, userID string) ([]store.Grant, error) {
	var rows []model.Grant
	err := s.db.Where("tenant_id = ? AND user_id = ?", tenantID, userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]store.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, store.Grant{
			UserID:    row.UserID,
			TenantID:  row.TenantID,
			ScopeKind: kindFromString(row.ScopeKind),
			ScopeID:   row.ScopeID,
			Write:     row.Write,
		})
	}
	return grants, nil
}

func (s *Store) CreateShare(sh *store.Share) error {
	return s.db.Create(&model.Share{
		EntityKind: sh.EntityKind.String(),
		EntityID:   sh.EntityID,
		UserID:     sh.UserID,
		Write:      sh.Write,
	}).Error
}

func (s *Store) SharesForEntity(kind vault.EntityKind, id string) ([]store.Share, error) {
	var rows []model.Share
	err := s.db.Where("entity_kind = ? AND entity_id = ?", kind.String(), id).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	shares := make([]store.Share, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, store.Share{
			EntityKind: kindFromString(row.EntityKind),
			EntityID:   row.EntityID,
			UserID:     row.UserID,
			Write:      row.Write,
		})
	}
	return shares, nil
}

func (s *Store) CreateTrashItem(t *store.TrashItem) error {
	return s.db.Create(fromTrashItem(t)).Error
}

func (s *Store) TrashItem(id string) (*store.TrashItem, error) {
	var row model.TrashItem
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: trash item %s", vault.ErrNotFound, id)
		}
		return nil, err
	}
	return toTrashItem(&row), nil
}

func (s *Store) UpdateTrashItem(t *store.TrashItem) error {
	res := s.db.Model(&model.TrashItem{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"status":      t.Status.String(),
		"restored_by": t.RestoredBy,
		"restored_at": t.RestoredAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, t.ID)
	}
	return nil
}

func (s *Store) DeleteTrashItem(id string) error {
	res := s.db.Where("id = ?", id).Delete(&model.TrashItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, id)
	}
	return nil
}

func (s *Store) ListTrash(tenantID string, after *store.Cursor, limit int) ([]store.TrashItem, error) {
	q := s.db.Where("tenant_id = ?", tenantID).Order("deleted_at, id")
	if after != nil {
		q = q.Where("(deleted_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []model.TrashItem
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]store.TrashItem, 0, len(rows))
	for i := range rows {
		items = append(items, *toTrashItem(&rows[i]))
	}
	return items, nil
}

func (s *Store) PendingTrash(tenantID string) ([]store.TrashItem, error) {
	var rows []model.TrashItem
	err := s.db.Where("tenant_id = ? AND status = ?", tenantID, vault.StatusPending.String()).
		Order("deleted_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]store.TrashItem, 0, len(rows))
	for i := range rows {
		items = append(items, *toTrashItem(&rows[i]))
	}
	return items, nil
}
