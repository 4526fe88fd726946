package store

import (
	"time"

	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
)

// Organization is the root of a tenant's hierarchy.
type Organization struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Deleted     bool      `json:"deleted"`
	LockVersion int       `json:"lock_version"`
}

// Collection groups folders and passwords under one organization.
type Collection struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Deleted     bool      `json:"deleted"`
	LockVersion int       `json:"lock_version"`
}

// Folder nests under an organization, optionally inside a collection and
// under a parent folder. The parent chain is a single-parent tree.
type Folder struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	OrgID        string    `json:"org_id"`
	CollectionID string    `json:"collection_id"`
	ParentID     string    `json:"parent_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Deleted      bool      `json:"deleted"`
	LockVersion  int       `json:"lock_version"`
}

// Password is a credential entry. Secret always holds ciphertext; the
// plaintext exists only inside the crypto engine's decrypt call and the
// immediate caller's response.
type Password struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	OrgID          string    `json:"org_id"`
	CollectionID   string    `json:"collection_id"`
	FolderID       string    `json:"folder_id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Secret         []byte    `json:"secret"`
	URLs           []string  `json:"urls"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	Deleted        bool      `json:"deleted"`
	LockVersion    int       `json:"lock_version"`
}

// Attachment is the logical reference to an externally stored blob. The
// vault never holds the bytes, only the opaque storage key.
type Attachment struct {
	ID         string    `json:"id"`
	PasswordID string    `json:"password_id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// Grant is the coarse allow-list entry: a user's access to one
// organization, collection or folder scope. Grants are additive; there is
// no explicit deny.
type Grant struct {
	UserID    string           `json:"user_id"`
	TenantID  string           `json:"tenant_id"`
	ScopeKind vault.EntityKind `json:"scope_kind"`
	ScopeID   string           `json:"scope_id"`
	Write     bool             `json:"write"`
}

// Share is the fine-grained overlay: a single collection or folder shared
// with a specific user.
type Share struct {
	EntityKind vault.EntityKind `json:"entity_kind"`
	EntityID   string           `json:"entity_id"`
	UserID     string           `json:"user_id"`
	Write      bool             `json:"write"`
}

// TrashItem records one trashed entity: an immutable snapshot of its
// pre-delete state plus enough placement detail to replay it level by
// level.
type TrashItem struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	EntityKind  vault.EntityKind  `json:"entity_kind"`
	EntityID    string            `json:"entity_id"`
	ParentKind  vault.EntityKind  `json:"parent_kind"`
	ParentID    string            `json:"parent_id"`
	DeletedFrom string            `json:"deleted_from"`
	Snapshot    []byte            `json:"snapshot"`
	DeletedBy   string            `json:"deleted_by"`
	DeletedAt   time.Time         `json:"deleted_at"`
	Status      vault.TrashStatus `json:"status"`
	RestoredBy  string            `json:"restored_by,omitempty"`
	RestoredAt  *time.Time        `json:"restored_at,omitempty"`
}

// Node is the lightweight hierarchy view of any entity, used for ancestor
// walks, cascades and child listings.
type Node struct {
	Kind       vault.EntityKind `json:"kind"`
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	ParentKind vault.EntityKind `json:"parent_kind"`
	ParentID   string           `json:"parent_id"`
	OrgID      string           `json:"org_id"`
	TenantID   string           `json:"tenant_id"`
	CreatedAt  time.Time        `json:"created_at"`
	Deleted    bool             `json:"deleted"`
}

// ParentRef identifies a direct parent scope.
type ParentRef struct {
	Kind vault.EntityKind `json:"kind"`
	ID   string           `json:"id"`
}

// HasParent reports whether a node has a direct parent within the
// hierarchy (organizations do not).
func (n *Node) HasParent() bool {
	return n.ParentID != ""
}

// FolderParent resolves a folder's direct parent ref.
func FolderParent(f *Folder) (vault.EntityKind, string) {
	switch {
	case f.ParentID != "":
		return vault.KindFolder, f.ParentID
	case f.CollectionID != "":
		return vault.KindCollection, f.CollectionID
	default:
		return vault.KindOrganization, f.OrgID
	}
}

// PasswordParent resolves a password's direct parent ref.
func PasswordParent(p *Password) (vault.EntityKind, string) {
	switch {
	case p.FolderID != "":
		return vault.KindFolder, p.FolderID
	case p.CollectionID != "":
		return vault.KindCollection, p.CollectionID
	default:
		return vault.KindOrganization, p.OrgID
	}
}
