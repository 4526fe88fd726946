package gorm

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/vault-in-go/pkg/model"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Node builds the hierarchy view of one entity row.
func (s *Store) Node(kind vault.EntityKind, id string) (*store.Node, error) {
	switch kind {
	case vault.KindOrganization:
		o, err := s.Organization(id)
		if err != nil {
			return nil, err
		}
		return &store.Node{
			Kind: kind, ID: o.ID, Name: o.Name,
			OrgID: o.ID, TenantID: o.TenantID,
			CreatedAt: o.CreatedAt, Deleted: o.Deleted,
		}, nil
	case vault.KindCollection:
		c, err := s.Collection(id)
		if err != nil {
			return nil, err
		}
		return &store.Node{
			Kind: kind, ID: c.ID, Name: c.Name,
			ParentKind: vault.KindOrganization, ParentID: c.OrgID,
			OrgID: c.OrgID, TenantID: c.TenantID,
			CreatedAt: c.CreatedAt, Deleted: c.Deleted,
		}, nil
	case vault.KindFolder:
		f, err := s.Folder(id)
		if err != nil {
			return nil, err
		}
		parentKind, parentID := store.FolderParent(f)
		return &store.Node{
			Kind: kind, ID: f.ID, Name: f.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: f.OrgID, TenantID: f.TenantID,
			CreatedAt: f.CreatedAt, Deleted: f.Deleted,
		}, nil
	case vault.KindPassword:
		p, err := s.Password(id)
		if err != nil {
			return nil, err
		}
		parentKind, parentID := store.PasswordParent(p)
		return &store.Node{
			Kind: kind, ID: p.ID, Name: p.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: p.OrgID, TenantID: p.TenantID,
			CreatedAt: p.CreatedAt, Deleted: p.Deleted,
		}, nil
	}
	return nil, notFound(kind, id)
}

// LockNode takes a FOR UPDATE row lock on the entity for the duration of
// the surrounding transaction.
func (s *Store) LockNode(kind vault.EntityKind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	err = s.db.Model(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(kind, id)
		}
		return err
	}
	return nil
}

// Children lists live direct children across the child tables, merged
// and ordered by (created_at, id). Cursor and limit apply after the
// merge; result sets here are page-sized.
func (s *Store) Children(parent store.ParentRef, after *store.Cursor, limit int) ([]store.Node, error) {
	var nodes []store.Node

	collect := func(rows []store.Node) {
		for _, n := range rows {
			if after == nil || after.After(&n) {
				nodes = append(nodes, n)
			}
		}
	}

	if parent.Kind == vault.KindOrganization {
		var collections []model.Collection
		if err := s.db.Where("org_id = ? AND deleted = ?", parent.ID, false).Find(&collections).Error; err != nil {
			return nil, err
		}
		for i := range collections {
			c := &collections[i]
			collect([]store.Node{{
				Kind: vault.KindCollection, ID: c.ID, Name: c.Name,
				ParentKind: vault.KindOrganization, ParentID: c.OrgID,
				OrgID: c.OrgID, TenantID: c.TenantID,
				CreatedAt: c.CreatedAt,
			}})
		}
	}

	var folders []model.Folder
	folderQuery := s.db.Where("deleted = ?", false)
	var passwords []model.Password
	passwordQuery := s.db.Where("deleted = ?", false)

	switch parent.Kind {
	case vault.KindOrganization:
		folderQuery = folderQuery.Where("org_id = ? AND collection_id = '' AND parent_id = ''", parent.ID)
		passwordQuery = passwordQuery.Where("org_id = ? AND collection_id = '' AND folder_id = ''", parent.ID)
	case vault.KindCollection:
		folderQuery = folderQuery.Where("collection_id = ? AND parent_id = ''", parent.ID)
		passwordQuery = passwordQuery.Where("collection_id = ? AND folder_id = ''", parent.ID)
	case vault.KindFolder:
		folderQuery = folderQuery.Where("parent_id = ?", parent.ID)
		passwordQuery = passwordQuery.Where("folder_id = ?", parent.ID)
	default:
		return nil, nil
	}

	if err := folderQuery.Find(&folders).Error; err != nil {
		return nil, err
	}
	for i := range folders {
		f := toFolder(&folders[i])
		parentKind, parentID := store.FolderParent(f)
		collect([]store.Node{{
			Kind: vault.KindFolder, ID: f.ID, Name: f.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: f.OrgID, TenantID: f.TenantID,
			CreatedAt: f.CreatedAt,
		}})
	}

	if err := passwordQuery.Find(&passwords).Error; err != nil {
		return nil, err
	}
	for i := range passwords {
		p := toPassword(&passwords[i])
		parentKind, parentID := store.PasswordParent(p)
		collect([]store.Node{{
			Kind: vault.KindPassword, ID: p.ID, Name: p.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: p.OrgID, TenantID: p.TenantID,
			CreatedAt: p.CreatedAt,
		}})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].ID < nodes[j].ID
		}
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

// NameTaken reports whether a live sibling of the given kind already
// uses the name within the parent scope.
func (s *Store) NameTaken(kind vault.EntityKind, tenantID string, parent store.ParentRef, name string) (bool, error) {
	var count int64
	var err error

	switch kind {
	case vault.KindOrganization:
		err = s.db.Model(&model.Organization{}).
			Where("tenant_id = ? AND name = ? AND deleted = ?", tenantID, name, false).
			Count(&count).Error
	case vault.KindCollection:
		err = s.db.Model(&model.Collection{}).
			Where("org_id = ? AND name = ? AND deleted = ?", parent.ID, name, false).
			Count(&count).Error
	case vault.KindFolder:
		q := s.db.Model(&model.Folder{}).Where("name = ? AND deleted = ?", name, false)
		err = scopeToParent(q, parent, "parent_id", "collection_id").Count(&count).Error
	case vault.KindPassword:
		q := s.db.Model(&model.Password{}).Where("name = ? AND deleted = ?", name, false)
		err = scopeToParent(q, parent, "folder_id", "collection_id").Count(&count).Error
	}

	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scopeToParent narrows a folder or password query to one direct-parent
// scope, honoring the reference precedence.
func scopeToParent(q *gorm.DB, parent store.ParentRef, specificCol, collectionCol string) *gorm.DB {
	switch parent.Kind {
	case vault.KindFolder:
		return q.Where(specificCol+" = ?", parent.ID)
	case vault.KindCollection:
		return q.Where(collectionCol+" = ? AND "+specificCol+" = ''", parent.ID)
	default:
		return q.Where("org_id = ? AND "+collectionCol+" = '' AND "+specificCol+" = ''", parent.ID)
	}
}
