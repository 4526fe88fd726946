package entity

import (
	"fmt"
	"time"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Move re-parents a collection, folder or password. Hierarchy invariants
// are re-validated atomically: a failed validation leaves the entity at
// its prior parent unchanged. Moving a folder under itself or one of its
// descendants is rejected before anything is persisted.
func (s *Service) Move(user *identity.Identity, kind vault.EntityKind, id string, newParent store.ParentRef) error {
	return s.store.Transaction(func(st store.Store) error {
		node, err := st.Node(kind, id)
		if err != nil {
			return err
		}
		if node.Deleted {
			return fmt.Errorf("%w: %s %s", vault.ErrNotFound, kind, id)
		}
		if err := requireWrite(st, user, node); err != nil {
			return err
		}
		if err := validParentKind(kind, newParent.Kind); err != nil {
			return err
		}

		parent, err := liveParent(st, user.TenantID, newParent)
		if err != nil {
			return err
		}
		// Placing into the destination is itself a write.
		if err := requireWrite(st, user, parent); err != nil {
			return err
		}

		// Re-targeting the current parent is a no-op, not a name clash
		// with the entity itself.
		if node.ParentKind == parent.Kind && node.ParentID == parent.ID {
			return nil
		}

		// Lock the entity, its old parent and the destination so
		// overlapping structural mutations serialize.
		if err := st.LockNode(kind, id); err != nil {
			return err
		}
		if node.HasParent() {
			if err := st.LockNode(node.ParentKind, node.ParentID); err != nil {
				return err
			}
		}
		if err := st.LockNode(parent.Kind, parent.ID); err != nil {
			return err
		}

		if kind == vault.KindFolder {
			if err := checkNoCycle(st, id, parent); err != nil {
				return err
			}
		}
		if err := checkName(st, kind, user.TenantID, newParent, node.Name); err != nil {
			return err
		}

		switch kind {
		case vault.KindCollection:
			return s.moveCollection(st, id, parent)
		case vault.KindFolder:
			return s.moveFolder(st, id, parent)
		case vault.KindPassword:
			return s.movePassword(st, id, parent)
		}
		return fmt.Errorf("%w: %s cannot be moved", vault.ErrValidation, kind)
	})
}

// validParentKind enforces which containers each entity kind may live
// under.
func validParentKind(kind, parentKind vault.EntityKind) error {
	ok := false
	switch kind {
	case vault.KindCollection:
		ok = parentKind == vault.KindOrganization
	case vault.KindFolder, vault.KindPassword:
		ok = parentKind == vault.KindOrganization ||
			parentKind == vault.KindCollection ||
			parentKind == vault.KindFolder
	}
	if !ok {
		return fmt.Errorf("%w: a %s cannot live under a %s", vault.ErrValidation, kind, parentKind)
	}
	return nil
}

// checkNoCycle walks the destination's ancestor chain and rejects the
// move if the folder being moved appears on it.
func checkNoCycle(st store.Store, folderID string, dest *store.Node) error {
	if dest.Kind == vault.KindFolder && dest.ID == folderID {
		return fmt.Errorf("%w: folder %s cannot be moved under itself", vault.ErrValidation, folderID)
	}

	visited := map[string]bool{folderID: true}
	current := dest
	for depth := 0; current.HasParent(); depth++ {
		if depth >= 256 || visited[current.ParentID] {
			return fmt.Errorf("%w: folder %s cannot be moved under its own descendant", vault.ErrValidation, folderID)
		}
		visited[current.ID] = true

		parent, err := st.Node(current.ParentKind, current.ParentID)
		if err != nil {
			return err
		}
		current = parent
	}
	return nil
}

func (s *Service) moveCollection(st store.Store, id string, dest *store.Node) error {
	c, err := st.Collection(id)
	if err != nil {
		return err
	}
	orgChanged := c.OrgID != dest.ID
	c.OrgID = dest.ID
	c.UpdatedAt = time.Now().UTC()
	if err := st.UpdateCollection(c); err != nil {
		return err
	}
	if !orgChanged {
		return nil
	}
	return rewriteSubtree(st, store.Node{Kind: vault.KindCollection, ID: id}, dest.ID, c.ID, false)
}

func (s *Service) moveFolder(st store.Store, id string, dest *store.Node) error {
	f, err := st.Folder(id)
	if err != nil {
		return err
	}

	oldOrg, oldCollection := f.OrgID, f.CollectionID
	switch dest.Kind {
	case vault.KindFolder:
		destFolder, err := st.Folder(dest.ID)
		if err != nil {
			return err
		}
		f.ParentID = dest.ID
		f.CollectionID = destFolder.CollectionID
		f.OrgID = destFolder.OrgID
	case vault.KindCollection:
		f.ParentID = ""
		f.CollectionID = dest.ID
		f.OrgID = dest.OrgID
	case vault.KindOrganization:
		f.ParentID = ""
		f.CollectionID = ""
		f.OrgID = dest.ID
	}
	f.UpdatedAt = time.Now().UTC()
	if err := st.UpdateFolder(f); err != nil {
		return err
	}

	if oldOrg == f.OrgID && oldCollection == f.CollectionID {
		return nil
	}
	// Descendants carry denormalized ancestor ids; bring them along.
	return rewriteSubtree(st, store.Node{Kind: vault.KindFolder, ID: id}, f.OrgID, f.CollectionID, true)
}

func (s *Service) movePassword(st store.Store, id string, dest *store.Node) error {
	p, err := st.Password(id)
	if err != nil {
		return err
	}

	switch dest.Kind {
	case vault.KindFolder:
		destFolder, err := st.Folder(dest.ID)
		if err != nil {
			return err
		}
		p.FolderID = dest.ID
		p.CollectionID = destFolder.CollectionID
		p.OrgID = destFolder.OrgID
	case vault.KindCollection:
		p.FolderID = ""
		p.CollectionID = dest.ID
		p.OrgID = dest.OrgID
	case vault.KindOrganization:
		p.FolderID = ""
		p.CollectionID = ""
		p.OrgID = dest.ID
	}
	p.UpdatedAt = time.Now().UTC()
	return st.UpdatePassword(p)
}

// rewriteSubtree repairs the denormalized org/collection ids of every
// node under root after a cross-container move. setCollection is false
// when root is itself a collection, whose descendants keep their own
// collection reference.
func rewriteSubtree(st store.Store, root store.Node, orgID, collectionID string, setCollection bool) error {
	queue := []store.Node{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := st.Children(store.ParentRef{Kind: current.Kind, ID: current.ID}, nil, 0)
		if err != nil {
			return err
		}
		queue = append(queue, children...)

		if current.ID == root.ID && current.Kind == root.Kind {
			continue
		}
		switch current.Kind {
		case vault.KindFolder:
			f, err := st.Folder(current.ID)
			if err != nil {
				return err
			}
			f.OrgID = orgID
			if setCollection {
				f.CollectionID = collectionID
			}
			if err := st.SaveFolder(f); err != nil {
				return err
			}
		case vault.KindPassword:
			p, err := st.Password(current.ID)
			if err != nil {
				return err
			}
			p.OrgID = orgID
			if setCollection {
				p.CollectionID = collectionID
			}
			if err := st.SavePassword(p); err != nil {
				return err
			}
		}
	}
	return nil
}
