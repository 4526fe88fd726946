// Package gorm implements the vault store on PostgreSQL via GORM.
//
// Optimistic concurrency uses the lock_version column: updates are
// conditional on the version the caller read, and a lost race surfaces
// as vault.ErrConflict. Pessimistic subtree serialization uses
// SELECT ... FOR UPDATE row locks taken through LockNode.
package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/vault-in-go/pkg/model"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store using GORM
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a store bound to one database
// transaction. fn returning an error rolls the whole unit back.
func (s *Store) Transaction(fn func(store.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFound(kind vault.EntityKind, id string) error {
	return fmt.Errorf("%w: %s %s", vault.ErrNotFound, kind, id)
}

func (s *Store) Organization(id string) (*store.Organization, error) {
	var row model.Organization
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(vault.KindOrganization, id)
		}
		return nil, err
	}
	return toOrganization(&row), nil
}

func (s *Store) Collection(id string) (*store.Collection, error) {
	var row model.Collection
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(vault.KindCollection, id)
		}
		return nil, err
	}
	return toCollection(&row), nil
}

func (s *Store) Folder(id string) (*store.Folder, error) {
	var row model.Folder
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(vault.KindFolder, id)
		}
		return nil, err
	}
	return toFolder(&row), nil
}

func (s *Store) Password(id string) (*store.Password, error) {
	var row model.Password
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(vault.KindPassword, id)
		}
		return nil, err
	}
	return toPassword(&row), nil
}

func (s *Store) CreateOrganization(o *store.Organization) error {
	return s.db.Create(fromOrganization(o)).Error
}

func (s *Store) CreateCollection(c *store.Collection) error {
	return s.db.Create(fromCollection(c)).Error
}

func (s *Store) CreateFolder(f *store.Folder) error {
	return s.db.Create(fromFolder(f)).Error
}

func (s *Store) CreatePassword(p *store.Password) error {
	return s.db.Create(fromPassword(p)).Error
}

// guardedUpdate applies cols to the row with the expected lock_version,
// bumping the version in the same statement. Zero rows affected means
// the row is gone or someone else won the race.
func (s *Store) guardedUpdate(kind vault.EntityKind, table interface{}, id string, lockVersion int, cols map[string]interface{}) error {
	cols["lock_version"] = lockVersion + 1
	res := s.db.Model(table).
		Where("id = ? AND lock_version = ?", id, lockVersion).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound(kind, id)
		}
		return fmt.Errorf("%w: %s %s was modified concurrently", vault.ErrConflict, kind, id)
	}
	return nil
}

func (s *Store) UpdateOrganization(o *store.Organization) error {
	err := s.guardedUpdate(vault.KindOrganization, &model.Organization{}, o.ID, o.LockVersion, map[string]interface{}{
		"name":       o.Name,
		"updated_at": o.UpdatedAt,
		"deleted":    o.Deleted,
	})
	if err != nil {
		return err
	}
	o.LockVersion++
	return nil
}

func (s *Store) UpdateCollection(c *store.Collection) error {
	err := s.guardedUpdate(vault.KindCollection, &model.Collection{}, c.ID, c.LockVersion, map[string]interface{}{
		"org_id":      c.OrgID,
		"name":        c.Name,
		"description": c.Description,
		"updated_at":  c.UpdatedAt,
		"deleted":     c.Deleted,
	})
	if err != nil {
		return err
	}
	c.LockVersion++
	return nil
}

func (s *Store) UpdateFolder(f *store.Folder) error {
	err := s.guardedUpdate(vault.KindFolder, &model.Folder{}, f.ID, f.LockVersion, map[string]interface{}{
		"org_id":        f.OrgID,
		"collection_id": f.CollectionID,
		"parent_id":     f.ParentID,
		"name":          f.Name,
		"updated_at":    f.UpdatedAt,
		"deleted":       f.Deleted,
	})
	if err != nil {
		return err
	}
	f.LockVersion++
	return nil
}

func (s *Store) UpdatePassword(p *store.Password) error {
	err := s.guardedUpdate(vault.KindPassword, &model.Password{}, p.ID, p.LockVersion, map[string]interface{}{
		"org_id":           p.OrgID,
		"collection_id":    p.CollectionID,
		"folder_id":        p.FolderID,
		"name":             p.Name,
		"username":         p.Username,
		"secret":           p.Secret,
		"urls":             encodeURLs(p.URLs),
		"notes":            p.Notes,
		"updated_at":       p.UpdatedAt,
		"last_modified_at": p.LastModifiedAt,
		"deleted":          p.Deleted,
	})
	if err != nil {
		return err
	}
	p.LockVersion++
	return nil
}

func (s *Store) SaveOrganization(o *store.Organization) error {
	return s.db.Save(fromOrganization(o)).Error
}

func (s *Store) SaveCollection(c *store.Collection) error {
	return s.db.Save(fromCollection(c)).Error
}

func (s *Store) SaveFolder(f *store.Folder) error {
	return s.db.Save(fromFolder(f)).Error
}

func (s *Store) SavePassword(p *store.Password) error {
	return s.db.Save(fromPassword(p)).Error
}

func (s *Store) SetDeleted(kind vault.EntityKind, id string, deleted bool) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res := s.db.Model(table).Where("id = ?", id).Update("deleted", deleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}

func (s *Store) DeleteEntity(kind vault.EntityKind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	if kind == vault.KindPassword {
		if err := s.db.Where("password_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
	}
	if err := s.db.Where("entity_kind = ? AND entity_id = ?", kind.String(), id).Delete(&model.Share{}).Error; err != nil {
		return err
	}

	res := s.db.Where("id = ?", id).Delete(table)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}

func tableFor(kind vault.EntityKind) (interface{}, error) {
	switch kind {
	case vault.KindOrganization:
		return &model.Organization{}, nil
	case vault.KindCollection:
		return &model.Collection{}, nil
	case vault.KindFolder:
		return &model.Folder{}, nil
	case vault.KindPassword:
		return &model.Password{}, nil
	}
	return nil, fmt.Errorf("%w: unknown entity kind %d", vault.ErrValidation, kind)
}
