package gorm

import (
	"encoding/json"

	"github.com/doodlesbykumbi/vault-in-go/pkg/model"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Kind columns hold the enum's string form; an empty column means "no
// reference" and only ever appears next to an empty id.
func kindFromString(s string) vault.EntityKind {
	k, _ := vault.EntityKindString(s)
	return k
}

func kindToString(k vault.EntityKind, id string) string {
	if id == "" {
		return ""
	}
	return k.String()
}

func encodeURLs(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeURLs(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil {
		return nil
	}
	return urls
}

func toOrganization(row *model.Organization) *store.Organization {
	return &store.Organization{
		ID:          row.ID,
		TenantID:    row.TenantID,
		Name:        row.Name,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Deleted:     row.Deleted,
		LockVersion: row.LockVersion,
	}
}

func fromOrganization(o *store.Organization) *model.Organization {
	return &model.Organization{
		ID:          o.ID,
		TenantID:    o.TenantID,
		Name:        o.Name,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Deleted:     o.Deleted,
		LockVersion: o.LockVersion,
	}
}

func toCollection(row *model.Collection) *store.Collection {
	return &store.Collection{
		ID:          row.ID,
		TenantID:    row.TenantID,
		OrgID:       row.OrgID,
		Name:        row.Name,
		Description: row.Description,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Deleted:     row.Deleted,
		LockVersion: row.LockVersion,
	}
}

func fromCollection(c *store.Collection) *model.Collection {
	return &model.Collection{
		ID:          c.ID,
		TenantID:    c.TenantID,
		OrgID:       c.OrgID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Deleted:     c.Deleted,
		LockVersion: c.LockVersion,
	}
}

func toFolder(row *model.Folder) *store.Folder {
	return &store.Folder{
		ID:           row.ID,
		TenantID:     row.TenantID,
		OrgID:        row.OrgID,
		CollectionID: row.CollectionID,
		ParentID:     row.ParentID,
		Name:         row.Name,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Deleted:      row.Deleted,
		LockVersion:  row.LockVersion,
	}
}

func fromFolder(f *store.Folder) *model.Folder {
	return &model.Folder{
		ID:           f.ID,
		TenantID:     f.TenantID,
		OrgID:        f.OrgID,
		CollectionID: f.CollectionID,
		ParentID:     f.ParentID,
		Name:         f.Name,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
		Deleted:      f.Deleted,
		LockVersion:  f.LockVersion,
	}
}

func toPassword(row *model.Password) *store.Password {
	return &store.Password{
		ID:             row.ID,
		TenantID:       row.TenantID,
		OrgID:          row.OrgID,
		CollectionID:   row.CollectionID,
		FolderID:       row.FolderID,
		Name:           row.Name,
		Username:       row.Username,
		Secret:         row.Secret,
		URLs:           decodeURLs(row.URLs),
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		LastModifiedAt: row.LastModifiedAt,
		Deleted:        row.Deleted,
		LockVersion:    row.LockVersion,
	}
}

func fromPassword(p *store.Password) *model.Password {
	return &model.Password{
		ID:             p.ID,
		TenantID:       p.TenantID,
		OrgID:          p.OrgID,
		CollectionID:   p.CollectionID,
		FolderID:       p.FolderID,
		Name:           p.Name,
		Username:       p.Username,
		Secret:         p.Secret,
		URLs:           encodeURLs(p.URLs),
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		LastModifiedAt: p.LastModifiedAt,
		Deleted:        p.Deleted,
		LockVersion:    p.LockVersion,
	}
}

func toAttachment(row *model.Attachment) *store.Attachment {
	return &store.Attachment{
		ID:         row.ID,
		PasswordID: row.PasswordID,
		Name:       row.Name,
		MimeType:   row.MimeType,
		Size:       row.Size,
		StorageKey: row.StorageKey,
		CreatedAt:  row.CreatedAt,
	}
}

func fromAttachment(a *store.Attachment) *model.Attachment {
	return &model.Attachment{
		ID:         a.ID,
		PasswordID: a.PasswordID,
		Name:       a.Name,
		MimeType:   a.MimeType,
		Size:       a.Size,
		StorageKey: a.StorageKey,
		CreatedAt:  a.CreatedAt,
	}
}

func toTrashItem(row *model.TrashItem) *store.TrashItem {
	status, _ := vault.TrashStatusString(row.Status)
	return &store.TrashItem{
		ID:          row.ID,
		TenantID:    row.TenantID,
		EntityKind:  kindFromString(row.EntityKind),
		EntityID:    row.EntityID,
		ParentKind:  kindFromString(row.ParentKind),
		ParentID:    row.ParentID,
		DeletedFrom: row.DeletedFrom,
		Snapshot:    row.Snapshot,
		DeletedBy:   row.DeletedBy,
		DeletedAt:   row.DeletedAt,
		Status:      status,
		RestoredBy:  row.RestoredBy,
		RestoredAt:  row.RestoredAt,
	}
}

func fromTrashItem(t *store.TrashItem) *model.TrashItem {
	return &model.TrashItem{
		ID:          t.ID,
		TenantID:    t.TenantID,
		EntityKind:  t.EntityKind.String(),
		EntityID:    t.EntityID,
		ParentKind:  kindToString(t.ParentKind, t.ParentID),
		ParentID:    t.ParentID,
		DeletedFrom: t.DeletedFrom,
		Snapshot:    t.Snapshot,
		DeletedBy:   t.DeletedBy,
		DeletedAt:   t.DeletedAt,
		Status:      t.Status.String(),
		RestoredBy:  t.RestoredBy,
		RestoredAt:  t.RestoredAt,
	}
}
