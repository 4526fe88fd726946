// Package trash implements the soft-delete subsystem: cascading capture
// of entity snapshots at delete time and their later replay through
// restore, with purge as the terminal path.
//
// A TrashItem moves pending -> restored via Restore, or is removed
// outright by Purge. Neither transition is reversible.
package trash

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/access"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Manager drives the trash lifecycle against one store.
type Manager struct {
	store store.Store
}

// NewManager returns a Manager bound to the store.
func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

// workItem is one pending node of a cascade, paired with the hierarchy
// path of its parent at delete time.
type workItem struct {
	node store.Node
	path string
}

// Cascade trashes the subtree rooted at root inside the caller's
// transaction, walking an explicit work list rather than recursing. Every
// node gets its own TrashItem recording its own original parent, so a
// deep subtree can later be restored level by level. Snapshots are taken
// before the soft-delete flag flips; secret ciphertext is captured as
// stored, never decrypted. Returns the number of entities trashed.
//
// The caller is responsible for the access decision and for holding the
// transaction open; Cascade only performs the mechanics.
func (m *Manager) Cascade(st store.Store, user *identity.Identity, root *store.Node, rootPath string) (int, error) {
	now := time.Now().UTC()
	queue := []workItem{{node: *root, path: rootPath}}
	count := 0

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		children, err := st.Children(store.ParentRef{Kind: item.node.Kind, ID: item.node.ID}, nil, 0)
		if err != nil {
			return count, err
		}
		childPath := item.path + "/" + item.node.Name
		for _, child := range children {
			queue = append(queue, workItem{node: child, path: childPath})
		}

		snapshot, err := snapshotEntity(st, item.node.Kind, item.node.ID)
		if err != nil {
			return count, err
		}

		if err := st.CreateTrashItem(&store.TrashItem{
			ID:          uuid.NewString(),
			TenantID:    item.node.TenantID,
			EntityKind:  item.node.Kind,
			EntityID:    item.node.ID,
			ParentKind:  item.node.ParentKind,
			ParentID:    item.node.ParentID,
			DeletedFrom: item.path,
			Snapshot:    snapshot,
			DeletedBy:   user.UserID,
			DeletedAt:   now,
			Status:      vault.StatusPending,
		}); err != nil {
			return count, err
		}

		if err := st.SetDeleted(item.node.Kind, item.node.ID, true); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// Restore replays a pending TrashItem's snapshot back into the live
// tree. The snapshot's original parent must still exist and be live;
// otherwise the caller gets vault.ErrRestoreConflict and must resolve
// placement themselves rather than have the entity silently reparented.
// Restoring a non-pending item fails with vault.ErrConflict. Requires
// admin or write access on the original parent.
func (m *Manager) Restore(user *identity.Identity, trashItemID string) (*store.TrashItem, error) {
	var restored *store.TrashItem
	err := m.store.Transaction(func(st store.Store) error {
		item, err := st.TrashItem(trashItemID)
		if err != nil {
			return err
		}
		if item.TenantID != user.TenantID {
			return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, trashItemID)
		}
		if item.Status != vault.StatusPending {
			return fmt.Errorf("%w: trash item %s is %s, not pending", vault.ErrConflict, trashItemID, item.Status)
		}

		if err := m.authorizeRestore(st, user, item); err != nil {
			return err
		}

		if item.ParentID != "" {
			parent, err := st.Node(item.ParentKind, item.ParentID)
			if err != nil {
				if errors.Is(err, vault.ErrNotFound) {
					return fmt.Errorf("%w: original parent %s %s of trash item %s no longer exists",
						vault.ErrRestoreConflict, item.ParentKind, item.ParentID, trashItemID)
				}
				return err
			}
			if err := st.LockNode(parent.Kind, parent.ID); err != nil {
				return err
			}
			if parent.Deleted {
				return fmt.Errorf("%w: original parent %s %s of trash item %s is trashed",
					vault.ErrRestoreConflict, item.ParentKind, item.ParentID, trashItemID)
			}
		}

		if err := replaySnapshot(st, item); err != nil {
			return err
		}

		now := time.Now().UTC()
		item.Status = vault.StatusRestored
		item.RestoredBy = user.UserID
		item.RestoredAt = &now
		if err := st.UpdateTrashItem(item); err != nil {
			return err
		}
		restored = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// Purge permanently deletes a pending TrashItem and its entity row.
// Terminal: the snapshot is gone and the entity can never be restored.
// Admin only.
func (m *Manager) Purge(user *identity.Identity, trashItemID string) error {
	if !user.Admin {
		return fmt.Errorf("%w: user %s may not purge trash", vault.ErrPermissionDenied, user.UserID)
	}
	return m.store.Transaction(func(st store.Store) error {
		item, err := st.TrashItem(trashItemID)
		if err != nil {
			return err
		}
		if item.TenantID != user.TenantID {
			return fmt.Errorf("%w: trash item %s", vault.ErrNotFound, trashItemID)
		}
		return purgeItem(st, item)
	})
}

// EmptyAll purges every pending TrashItem in the user's tenant. Each
// item is purged in its own transaction so one failure does not abort
// the sweep; the purged count and any joined per-item errors are both
// returned. Restored items are left as history. Admin only.
func (m *Manager) EmptyAll(user *identity.Identity) (int, error) {
	if !user.Admin {
		return 0, fmt.Errorf("%w: user %s may not empty trash", vault.ErrPermissionDenied, user.UserID)
	}

	pending, err := m.store.PendingTrash(user.TenantID)
	if err != nil {
		return 0, err
	}

	count := 0
	var errs []error
	for i := range pending {
		item := pending[i]
		err := m.store.Transaction(func(st store.Store) error {
			return purgeItem(st, &item)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("purge trash item %s: %w", item.ID, err))
			continue
		}
		count++
	}
	return count, errors.Join(errs...)
}

// List pages through the tenant's trash, ordered by deletion time
// ascending so the keyset cursor stays stable as new deletions land.
// Admin only; non-admins interact with trash solely through Restore.
func (m *Manager) List(user *identity.Identity, after *store.Cursor, limit int) ([]store.TrashItem, error) {
	if !user.Admin {
		return nil, fmt.Errorf("%w: user %s may not list trash", vault.ErrPermissionDenied, user.UserID)
	}
	return m.store.ListTrash(user.TenantID, after, limit)
}

// authorizeRestore allows admins unconditionally; everyone else needs a
// write-capable grant or share on the original parent. Organizations
// have no parent, so only admins restore them.
func (m *Manager) authorizeRestore(st store.Store, user *identity.Identity, item *store.TrashItem) error {
	if user.Admin {
		return nil
	}
	if item.ParentID == "" {
		return fmt.Errorf("%w: user %s may not restore %s %s",
			vault.ErrPermissionDenied, user.UserID, item.EntityKind, item.EntityID)
	}
	return access.NewEvaluator(st).Evaluate(user, item.ParentKind, item.ParentID, vault.OpWrite)
}

func purgeItem(st store.Store, item *store.TrashItem) error {
	if item.Status != vault.StatusPending {
		return fmt.Errorf("%w: trash item %s is %s, not pending", vault.ErrConflict, item.ID, item.Status)
	}
	if err := st.DeleteEntity(item.EntityKind, item.EntityID); err != nil && !errors.Is(err, vault.ErrNotFound) {
		return err
	}
	return st.DeleteTrashItem(item.ID)
}

// snapshotEntity serializes the entity row exactly as stored. Password
// secrets stay ciphertext.
func snapshotEntity(st store.Store, kind vault.EntityKind, id string) ([]byte, error) {
	var entity any
	var err error
	switch kind {
	case vault.KindOrganization:
		entity, err = st.Organization(id)
	case vault.KindCollection:
		entity, err = st.Collection(id)
	case vault.KindFolder:
		entity, err = st.Folder(id)
	case vault.KindPassword:
		entity, err = st.Password(id)
	default:
		return nil, fmt.Errorf("%w: cannot snapshot entity kind %s", vault.ErrValidation, kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(entity)
}

// replaySnapshot upserts the captured entity with its original identity,
// clearing the soft-delete flag. The snapshot itself is never mutated.
func replaySnapshot(st store.Store, item *store.TrashItem) error {
	switch item.EntityKind {
	case vault.KindOrganization:
		var o store.Organization
		if err := json.Unmarshal(item.Snapshot, &o); err != nil {
			return fmt.Errorf("decode snapshot of trash item %s: %w", item.ID, err)
		}
		o.Deleted = false
		return st.SaveOrganization(&o)
	case vault.KindCollection:
		var c store.Collection
		if err := json.Unmarshal(item.Snapshot, &c); err != nil {
			return fmt.Errorf("decode snapshot of trash item %s: %w", item.ID, err)
		}
		c.Deleted = false
		return st.SaveCollection(&c)
	case vault.KindFolder:
		var f store.Folder
		if err := json.Unmarshal(item.Snapshot, &f); err != nil {
			return fmt.Errorf("decode snapshot of trash item %s: %w", item.ID, err)
		}
		f.Deleted = false
		return st.SaveFolder(&f)
	case vault.KindPassword:
		var p store.Password
		if err := json.Unmarshal(item.Snapshot, &p); err != nil {
			return fmt.Errorf("decode snapshot of trash item %s: %w", item.ID, err)
		}
		p.Deleted = false
		return st.SavePassword(&p)
	}
	return fmt.Errorf("%w: cannot restore entity kind %s", vault.ErrValidation, item.EntityKind)
}
