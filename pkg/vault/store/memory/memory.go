// Package memory implements store.Store entirely in process memory. It
// backs unit tests and offline tooling; the gorm package is the
// production backend. A single mutex serializes all mutations, which
// trivially satisfies the per-subtree serialization the core requires.
package memory

import (
	"sort"
	"sync"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store is the lock-guarded entry point. All public methods take the
// mutex; the inner txStore assumes it is held.
type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	orgs        map[string]store.Organization
	collections map[string]store.Collection
	folders     map[string]store.Folder
	passwords   map[string]store.Password
	attachments map[string]store.Attachment
	grants      []store.Grant
	shares      []store.Share
	trash       map[string]store.TrashItem
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: newData()}
}

func newData() *data {
	return &data{
		orgs:        map[string]store.Organization{},
		collections: map[string]store.Collection{},
		folders:     map[string]store.Folder{},
		passwords:   map[string]store.Password{},
		attachments: map[string]store.Attachment{},
		trash:       map[string]store.TrashItem{},
	}
}

func (d *data) clone() *data {
	c := &data{
		orgs:        make(map[string]store.Organization, len(d.orgs)),
		collections: make(map[string]store.Collection, len(d.collections)),
		folders:     make(map[string]store.Folder, len(d.folders)),
		passwords:   make(map[string]store.Password, len(d.passwords)),
		attachments: make(map[string]store.Attachment, len(d.attachments)),
		grants:      append([]store.Grant(nil), d.grants...),
		shares:      append([]store.Share(nil), d.shares...),
		trash:       make(map[string]store.TrashItem, len(d.trash)),
	}
	for k, v := range d.orgs {
		c.orgs[k] = v
	}
	for k, v := range d.collections {
		c.collections[k] = v
	}
	for k, v := range d.folders {
		c.folders[k] = v
	}
	for k, v := range d.passwords {
		c.passwords[k] = clonePassword(v)
	}
	for k, v := range d.attachments {
		c.attachments[k] = v
	}
	for k, v := range d.trash {
		c.trash[k] = cloneTrashItem(v)
	}
	return c
}

func clonePassword(p store.Password) store.Password {
	p.Secret = append([]byte(nil), p.Secret...)
	p.URLs = append([]string(nil), p.URLs...)
	return p
}

func cloneTrashItem(t store.TrashItem) store.TrashItem {
	t.Snapshot = append([]byte(nil), t.Snapshot...)
	if t.RestoredAt != nil {
		restoredAt := *t.RestoredAt
		t.RestoredAt = &restoredAt
	}
	return t
}

// Transaction serializes the callback under the store mutex and rolls the
// whole data set back if it fails.
func (s *Store) Transaction(fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.clone()
	err := fn(&txStore{data: s.data})
	if err != nil {
		s.data = backup
	}
	return err
}

func (s *Store) run(fn func(*txStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&txStore{data: s.data})
}

// The wrappers below take the lock and delegate to txStore, so single
// operations outside an explicit transaction stay safe for concurrent use.

func (s *Store) Organization(id string) (o *store.Organization, err error) {
	err = s.run(func(t *txStore) error { o, err = t.Organization(id); return err })
	return
}

func (s *Store) Collection(id string) (c *store.Collection, err error) {
	err = s.run(func(t *txStore) error { c, err = t.Collection(id); return err })
	return
}

func (s *Store) Folder(id string) (f *store.Folder, err error) {
	err = s.run(func(t *txStore) error { f, err = t.Folder(id); return err })
	return
}

func (s *Store) Password(id string) (p *store.Password, err error) {
	err = s.run(func(t *txStore) error { p, err = t.Password(id); return err })
	return
}

func (s *Store) CreateOrganization(o *store.Organization) error {
	return s.run(func(t *txStore) error { return t.CreateOrganization(o) })
}

func (s *Store) CreateCollection(c *store.Collection) error {
	return s.run(func(t *txStore) error { return t.CreateCollection(c) })
}

func (s *Store) CreateFolder(f *store.Folder) error {
	return s.run(func(t *txStore) error { return t.CreateFolder(f) })
}

func (s *Store) CreatePassword(p *store.Password) error {
	return s.run(func(t *txStore) error { return t.CreatePassword(p) })
}

func (s *Store) UpdateOrganization(o *store.Organization) error {
	return s.run(func(t *txStore) error { return t.UpdateOrganization(o) })
}

func (s *Store) UpdateCollection(c *store.Collection) error {
	return s.run(func(t *txStore) error { return t.UpdateCollection(c) })
}

func (s *Store) UpdateFolder(f *store.Folder) error {
	return s.run(func(t *txStore) error { return t.UpdateFolder(f) })
}

func (s *Store) UpdatePassword(p *store.Password) error {
	return s.run(func(t *txStore) error { return t.UpdatePassword(p) })
}

func (s *Store) SaveOrganization(o *store.Organization) error {
	return s.run(func(t *txStore) error { return t.SaveOrganization(o) })
}

func (s *Store) SaveCollection(c *store.Collection) error {
	return s.run(func(t *txStore) error { return t.SaveCollection(c) })
}

func (s *Store) SaveFolder(f *store.Folder) error {
	return s.run(func(t *txStore) error { return t.SaveFolder(f) })
}

func (s *Store) SavePassword(p *store.Password) error {
	return s.run(func(t *txStore) error { return t.SavePassword(p) })
}

func (s *Store) SetDeleted(kind vault.EntityKind, id string, deleted bool) error {
	return s.run(func(t *txStore) error { return t.SetDeleted(kind, id, deleted) })
}

func (s *Store) DeleteEntity(kind vault.EntityKind, id string) error {
	return s.run(func(t *txStore) error { return t.DeleteEntity(kind, id) })
}

func (s *Store) Node(kind vault.EntityKind, id string) (n *store.Node, err error) {
	err = s.run(func(t *txStore) error { n, err = t.Node(kind, id); return err })
	return
}

func (s *Store) LockNode(kind vault.EntityKind, id string) error {
	return s.run(func(t *txStore) error { return t.LockNode(kind, id) })
}

func (s *Store) Children(parent store.ParentRef, after *store.Cursor, limit int) (ns []store.Node, err error) {
	err = s.run(func(t *txStore) error { ns, err = t.Children(parent, after, limit); return err })
	return
}

func (s *Store) NameTaken(kind vault.EntityKind, tenantID string, parent store.ParentRef, name string) (taken bool, err error) {
	err = s.run(func(t *txStore) error { taken, err = t.NameTaken(kind, tenantID, parent, name); return err })
	return
}

func (s *Store) CreateAttachment(a *store.Attachment) error {
	return s.run(func(t *txStore) error { return t.CreateAttachment(a) })
}

func (s *Store) Attachment(id string) (a *store.Attachment, err error) {
	err = s.run(func(t *txStore) error { a, err = t.Attachment(id); return err })
	return
}

func (s *Store) AttachmentsForPassword(passwordID string) (as []store.Attachment, err error) {
	err = s.run(func(t *txStore) error { as, err = t.AttachmentsForPassword(passwordID); return err })
	return
}

func (s *Store) CreateGrant(g *store.Grant) error {
	return s.run(func(t *txStore) error { return t.CreateGrant(g) })
}

func (s *Store) GrantsForUser(tenantID, userID string) (gs []store.Grant, err error) {
	err = s.run(func(t *txStore) error { gs, err = t.GrantsForUser(tenantID, userID); return err })
	return
}

func (s *Store) CreateShare(sh *store.Share) error {
	return s.run(func(t *txStore) error { return t.CreateShare(sh) })
}

func (s *Store) SharesForEntity(kind vault.EntityKind, id string) (shs []store.Share, err error) {
	err = s.run(func(t *txStore) error { shs, err = t.SharesForEntity(kind, id); return err })
	return
}

func (s *Store) CreateTrashItem(item *store.TrashItem) error {
	return s.run(func(t *txStore) error { return t.CreateTrashItem(item) })
}

func (s *Store) TrashItem(id string) (item *store.TrashItem, err error) {
	err = s.run(func(t *txStore) error { item, err = t.TrashItem(id); return err })
	return
}

func (s *Store) UpdateTrashItem(item *store.TrashItem) error {
	return s.run(func(t *txStore) error { return t.UpdateTrashItem(item) })
}

func (s *Store) DeleteTrashItem(id string) error {
	return s.run(func(t *txStore) error { return t.DeleteTrashItem(id) })
}

func (s *Store) ListTrash(tenantID string, after *store.Cursor, limit int) (items []store.TrashItem, err error) {
	err = s.run(func(t *txStore) error { items, err = t.ListTrash(tenantID, after, limit); return err })
	return
}

func (s *Store) PendingTrash(tenantID string) (items []store.TrashItem, err error) {
	err = s.run(func(t *txStore) error { items, err = t.PendingTrash(tenantID); return err })
	return
}

// sortNodes orders by (created_at, id) ascending.
func sortNodes(nodes []store.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].ID < nodes[j].ID
		}
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
}
