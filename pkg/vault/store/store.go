package store

import (
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
)

// Store abstracts persistence for the vault core. Implementations must
// report failures against the pkg/vault error taxonomy: missing rows as
// vault.ErrNotFound, lost optimistic-lock races as vault.ErrConflict.
//
// Mutations that span rows run inside Transaction; the callback receives a
// Store bound to the transaction and the whole callback commits or rolls
// back as one unit.
type Store interface {
	Transaction(fn func(Store) error) error

	// Entity reads. Trashed rows are returned with Deleted set; callers
	// decide whether a trashed row counts as found.
	Organization(id string) (*Organization, error)
	Collection(id string) (*Collection, error)
	Folder(id string) (*Folder, error)
	Password(id string) (*Password, error)

	// Entity creates.
	CreateOrganization(o *Organization) error
	CreateCollection(c *Collection) error
	CreateFolder(f *Folder) error
	CreatePassword(p *Password) error

	// Entity updates, guarded by the record's LockVersion. A stale
	// version fails with vault.ErrConflict and leaves the row unchanged.
	UpdateOrganization(o *Organization) error
	UpdateCollection(c *Collection) error
	UpdateFolder(f *Folder) error
	UpdatePassword(p *Password) error

	// Snapshot replay: upsert an entity exactly as captured, reviving a
	// trashed row or recreating a purged-and-restored one.
	SaveOrganization(o *Organization) error
	SaveCollection(c *Collection) error
	SaveFolder(f *Folder) error
	SavePassword(p *Password) error

	// SetDeleted flips the soft-delete flag; DeleteEntity removes the row
	// permanently.
	SetDeleted(kind vault.EntityKind, id string, deleted bool) error
	DeleteEntity(kind vault.EntityKind, id string) error

	// Hierarchy.
	Node(kind vault.EntityKind, id string) (*Node, error)
	// LockNode takes a write lock on the entity row for the duration of
	// the surrounding transaction, serializing structural mutations on
	// overlapping subtrees.
	LockNode(kind vault.EntityKind, id string) error
	// Children lists live direct children in (created_at, id) order,
	// strictly after the cursor. limit <= 0 means no limit.
	Children(parent ParentRef, after *Cursor, limit int) ([]Node, error)
	// NameTaken reports whether a live sibling of the given kind already
	// uses the name within the parent scope.
	NameTaken(kind vault.EntityKind, tenantID string, parent ParentRef, name string) (bool, error)

	// Attachments.
	CreateAttachment(a *Attachment) error
	Attachment(id string) (*Attachment, error)
	AttachmentsForPassword(passwordID string) ([]Attachment, error)

	// Access control state.
	CreateGrant(g *Grant) error
	GrantsForUser(tenantID, userID string) ([]Grant, error)
	CreateShare(s *Share) error
	SharesForEntity(kind vault.EntityKind, id string) ([]Share, error)

	// Trash.
	CreateTrashItem(t *TrashItem) error
	TrashItem(id string) (*TrashItem, error)
	UpdateTrashItem(t *TrashItem) error
	DeleteTrashItem(id string) error
	ListTrash(tenantID string, after *Cursor, limit int) ([]TrashItem, error)
	PendingTrash(tenantID string) ([]TrashItem, error)
}
