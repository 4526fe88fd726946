package memory

import (
	"fmt"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// txStore operates on the shared data set with the owning Store's mutex
// already held.
type txStore struct {
	data *data
}

var _ store.Store = (*txStore)(nil)

// Nested transactions run inline; the outer transaction owns rollback.
func (t *txStore) Transaction(fn func(store.Store) error) error {
	return fn(t)
}

func notFound(kind vault.EntityKind, id string) error {
	return fmt.Errorf("%w: %s %s", vault.ErrNotFound, kind, id)
}

func staleVersion(kind vault.EntityKind, id string) error {
	return fmt.Errorf("%w: %s %s was modified concurrently", vault.ErrConflict, kind, id)
}

func (t *txStore) Organization(id string) (*store.Organization, error) {
	o, ok := t.data.orgs[id]
	if !ok {
		return nil, notFound(vault.KindOrganization, id)
	}
	return &o, nil
}

func (t *txStore) Collection(id string) (*store.Collection, error) {
	c, ok := t.data.collections[id]
	if !ok {
		return nil, notFound(vault.KindCollection, id)
	}
	return &c, nil
}

func (t *txStore) Folder(id string) (*store.Folder, error) {
	f, ok := t.data.folders[id]
	if !ok {
		return nil, notFound(vault.KindFolder, id)
	}
	return &f, nil
}

func (t *txStore) Password(id string) (*store.Password, error) {
	p, ok := t.data.passwords[id]
	if !ok {
		return nil, notFound(vault.KindPassword, id)
	}
	p = clonePassword(p)
	return &p, nil
}

func (t *txStore) CreateOrganization(o *store.Organization) error {
	if _, exists := t.data.orgs[o.ID]; exists {
		return fmt.Errorf("%w: organization %s already exists", vault.ErrConflict, o.ID)
	}
	t.data.orgs[o.ID] = *o
	return nil
}

func (t *txStore) CreateCollection(c *store.Collection) error {
	if _, exists := t.data.collections[c.ID]; exists {
		return fmt.Errorf("%w: collection %s already exists", vault.ErrConflict, c.ID)
	}
	t.data.collections[c.ID] = *c
	return nil
}

func (t *txStore) CreateFolder(f *store.Folder) error {
	if _, exists := t.data.folders[f.ID]; exists {
		return fmt.Errorf("%w: folder %s already exists", vault.ErrConflict, f.ID)
	}
	t.data.folders[f.ID] = *f
	return nil
}

func (t *txStore) CreatePassword(p *store.Password) error {
	if _, exists := t.data.passwords[p.ID]; exists {
		return fmt.Errorf("%w: password %s already exists", vault.ErrConflict, p.ID)
	}
	t.data.passwords[p.ID] = clonePassword(*p)
	return nil
}

func (t *txStore) UpdateOrganization(o *store.Organization) error {
	current, ok := t.data.orgs[o.ID]
	if !ok {
		return notFound(vault.KindOrganization, o.ID)
	}
	if current.LockVersion != o.LockVersion {
		return staleVersion(vault.KindOrganization, o.ID)
	}
	o.LockVersion++
	t.data.orgs[o.ID] = *o
	return nil
}

func (t *txStore) UpdateCollection(c *store.Collection) error {
	current, ok := t.data.collections[c.ID]
	if !ok {
		return notFound(vault.KindCollection, c.ID)
	}
	if current.LockVersion != c.LockVersion {
		return staleVersion(vault.KindCollection, c.ID)
	}
	c.LockVersion++
	t.data.collections[c.ID] = *c
	return nil
}

func (t *txStore) UpdateFolder(f *store.Folder) error {
	current, ok := t.data.folders[f.ID]
	if !ok {
		return notFound(vault.KindFolder, f.ID)
	}
	if current.LockVersion != f.LockVersion {
		return staleVersion(vault.KindFolder, f.ID)
	}
	f.LockVersion++
	t.data.folders[f.ID] = *f
	return nil
}

func (t *txStore) UpdatePassword(p *store.Password) error {
	current, ok := t.data.passwords[p.ID]
	if !ok {
		return notFound(vault.KindPassword, p.ID)
	}
	if current.LockVersion != p.LockVersion {
		return staleVersion(vault.KindPassword, p.ID)
	}
	p.LockVersion++
	t.data.passwords[p.ID] = clonePassword(*p)
	return nil
}

func (t *txStore) SaveOrganization(o *store.Organization) error {
	t.data.orgs[o.ID] = *o
	return nil
}

func (t *txStore) SaveCollection(c *store.Collection) error {
	t.data.collections[c.ID] = *c
	return nil
}

func (t *txStore) SaveFolder(f *store.Folder) error {
	t.data.folders[f.ID] = *f
	return nil
}

func (t *txStore) SavePassword(p *store.Password) error {
	t.data.passwords[p.ID] = clonePassword(*p)
	return nil
}

func (t *txStore) SetDeleted(kind vault.EntityKind, id string, deleted bool) error {
	switch kind {
	case vault.KindOrganization:
		o, ok := t.data.orgs[id]
		if !ok {
			return notFound(kind, id)
		}
		o.Deleted = deleted
		t.data.orgs[id] = o
	case vault.KindCollection:
		c, ok := t.data.collections[id]
		if !ok {
			return notFound(kind, id)
		}
		c.Deleted = deleted
		t.data.collections[id] = c
	case vault.KindFolder:
		f, ok := t.data.folders[id]
		if !ok {
			return notFound(kind, id)
		}
		f.Deleted = deleted
		t.data.folders[id] = f
	case vault.KindPassword:
		p, ok := t.data.passwords[id]
		if !ok {
			return notFound(kind, id)
		}
		p.Deleted = deleted
		t.data.passwords[id] = p
	default:
		return fmt.Errorf("%w: unknown entity kind %d", vault.ErrValidation, kind)
	}
	return nil
}

func (t *txStore) DeleteEntity(kind vault.EntityKind, id string) error {
	switch kind {
	case vault.KindOrganization:
		delete(t.data.orgs, id)
	case vault.KindCollection:
		delete(t.data.collections, id)
	case vault.KindFolder:
		delete(t.data.folders, id)
	case vault.KindPassword:
		delete(t.data.passwords, id)
		for attID, att := range t.data.attachments {
			if att.PasswordID == id {
				delete(t.data.attachments, attID)
			}
		}
	default:
		return fmt.Errorf("%w: unknown entity kind %d", vault.ErrValidation, kind)
	}

	// drop shares pointing at the removed entity
	kept := t.data.shares[:0]
	for _, sh := range t.data.shares {
		if !(sh.EntityKind == kind && sh.EntityID == id) {
			kept = append(kept, sh)
		}
	}
	t.data.shares = kept
	return nil
}

func (t *txStore) Node(kind vault.EntityKind, id string) (*store.Node, error) {
	switch kind {
	case vault.KindOrganization:
		o, ok := t.data.orgs[id]
		if !ok {
			return nil, notFound(kind, id)
		}
		return &store.Node{
			Kind: kind, ID: o.ID, Name: o.Name, OrgID: o.ID,
			TenantID: o.TenantID, CreatedAt: o.CreatedAt, Deleted: o.Deleted,
		}, nil
	case vault.KindCollection:
		c, ok := t.data.collections[id]
		if !ok {
			return nil, notFound(kind, id)
		}
		return &store.Node{
			Kind: kind, ID: c.ID, Name: c.Name,
			ParentKind: vault.KindOrganization, ParentID: c.OrgID,
			OrgID: c.OrgID, TenantID: c.TenantID, CreatedAt: c.CreatedAt, Deleted: c.Deleted,
		}, nil
	case vault.KindFolder:
		f, ok := t.data.folders[id]
		if !ok {
			return nil, notFound(kind, id)
		}
		parentKind, parentID := store.FolderParent(&f)
		return &store.Node{
			Kind: kind, ID: f.ID, Name: f.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: f.OrgID, TenantID: f.TenantID, CreatedAt: f.CreatedAt, Deleted: f.Deleted,
		}, nil
	case vault.KindPassword:
		p, ok := t.data.passwords[id]
		if !ok {
			return nil, notFound(kind, id)
		}
		parentKind, parentID := store.PasswordParent(&p)
		return &store.Node{
			Kind: kind, ID: p.ID, Name: p.Name,
			ParentKind: parentKind, ParentID: parentID,
			OrgID: p.OrgID, TenantID: p.TenantID, CreatedAt: p.CreatedAt, Deleted: p.Deleted,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown entity kind %d", vault.ErrValidation, kind)
}

// LockNode is a no-op: the store mutex already serializes everything.
func (t *txStore) LockNode(kind vault.EntityKind, id string) error {
	_, err := t.Node(kind, id)
	return err
}

func (t *txStore) Children(parent store.ParentRef, after *store.Cursor, limit int) ([]store.Node, error) {
	var nodes []store.Node

	appendNode := func(n *store.Node) {
		if !n.Deleted && after.After(n) {
			nodes = append(nodes, *n)
		}
	}

	if parent.Kind == vault.KindOrganization {
		for id, c := range t.data.collections {
			if c.OrgID == parent.ID {
				n, _ := t.Node(vault.KindCollection, id)
				if n != nil {
					appendNode(n)
				}
			}
		}
	}
	for id, f := range t.data.folders {
		parentKind, parentID := store.FolderParent(&f)
		if parentKind == parent.Kind && parentID == parent.ID {
			n, _ := t.Node(vault.KindFolder, id)
			if n != nil {
				appendNode(n)
			}
		}
	}
	for id, p := range t.data.passwords {
		parentKind, parentID := store.PasswordParent(&p)
		if parentKind == parent.Kind && parentID == parent.ID {
			n, _ := t.Node(vault.KindPassword, id)
			if n != nil {
				appendNode(n)
			}
		}
	}

	sortNodes(nodes)
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

func (t *txStore) NameTaken(kind vault.EntityKind, tenantID string, parent store.ParentRef, name string) (bool, error) {
	switch kind {
	case vault.KindOrganization:
		for _, o := range t.data.orgs {
			if o.TenantID == tenantID && o.Name == name && !o.Deleted {
				return true, nil
			}
		}
	case vault.KindCollection:
		for _, c := range t.data.collections {
			if c.OrgID == parent.ID && c.Name == name && !c.Deleted {
				return true, nil
			}
		}
	case vault.KindFolder:
		for _, f := range t.data.folders {
			parentKind, parentID := store.FolderParent(&f)
			if parentKind == parent.Kind && parentID == parent.ID && f.Name == name && !f.Deleted {
				return true, nil
			}
		}
	case vault.KindPassword:
		for _, p := range t.data.passwords {
			parentKind, parentID := store.PasswordParent(&p)
			if parentKind == parent.Kind && parentID == parent.ID && p.Name == name && !p.Deleted {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *txStore) CreateAttachment(a *store.Attachment) error {
	if _, exists := t.data.attachments[a.ID]; exists {
		return fmt.Errorf("%w: attachment %s already exists", vault.ErrConflict, a.ID)
	}
	t.data.attachments[a.ID] = *a
	return nil
}

func (t *txStore) Attachment(id string) (*store.Attachment, error) {
	a, ok := t.data.attachments[id]
	if !ok {
		return nil, fmt.Errorf("%w: attachment %s", vault.ErrNotFound, id)
	}
	return &a, nil
}

func (t *txStore) AttachmentsForPassword(passwordID string) ([]store.Attachment, error) {
	var result []store.Attachment
	for _, a := range t.data.attachments {
		if a.PasswordID == passwordID {
			result = append(result, a)
		}
	}
	sortAttachments(result)
	return result, nil
}

func (t *txStore) CreateGrant(g *store.Grant) error {
	t.data.grants = append(t.data.grants, *g)
	return nil
}

func (t *txStore) GrantsForUser(tenantID, userID string) ([]store.Grant, error) {
	var result []store.Grant
	for _, g := range t.data.grants {
		if g.TenantID == tenantID && g.UserID == userID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (t *txStore) CreateShare(sh *store.Share) error {
	t.data.shares = append(t.data.shares, *sh)
	return nil
}

func (t *txStore) SharesForEntity(kind vault.EntityKind, id string) ([]store.Share, error) {
	var result []store.Share
	for _, sh := range t.data.shares {
		if sh.EntityKind == kind && sh.EntityID == id {
			result = append(result, sh)
		}
	}
	return result, nil
}

func (t *txStore) CreateTrashItem(item *store.TrashItem) error {
	if _, exists := t.data.trash[item.ID]; exists {
		return fmt.Errorf("%w: trash item %s already exists", vault.ErrConflict, item.ID)
	}
	t.data.trash[item.ID] = cloneTrashItem(*item)
	return nil
}

func (t *txStore) TrashItem(id string) (*store.TrashItem, error) {
	item, ok := t.data.trash[id]
	if !ok {
		return nil, fmt.Errorf("%w: trash item %s", vault.ErrNotFound, id)
	}
	item = cloneTrashItem(item)
	return &item, nil
}

func (t *txStore) UpdateTrashItem(item *store.TrashItem) error {
	if _, ok := t.data.trash[item.ID]; !ok {
		return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, item.ID)
	}
	t.data.trash[item.ID] = cloneTrashItem(*item)
	return nil
}

func (t *txStore) DeleteTrashItem(id string) error {
	if _, ok := t.data.trash[id]; !ok {
		return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, id)
	}
	delete(t.data.trash, id)
	return nil
}

func (t *txStore) ListTrash(tenantID string, after *store.Cursor, limit int) ([]store.TrashItem, error) {
	var items []store.TrashItem
	for _, item := range t.data.trash {
		if item.TenantID != tenantID {
			continue
		}
		if after != nil {
			n := store.Node{CreatedAt: item.DeletedAt, ID: item.ID}
			if !after.After(&n) {
				continue
			}
		}
		items = append(items, cloneTrashItem(item))
	}
	sortTrashItems(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (t *txStore) PendingTrash(tenantID string) ([]store.TrashItem, error) {
	var items []store.TrashItem
	for _, item := range t.data.trash {
		if item.TenantID == tenantID && item.Status == vault.StatusPending {
			items = append(items, cloneTrashItem(item))
		}
	}
	sortTrashItems(items)
	return items, nil
}
