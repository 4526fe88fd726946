package entity

import (
	"fmt"
	"time"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// Update params are partial: nil fields keep their current value.
// LockVersion, when set, is the version the caller last observed; a
// mismatch fails the update with a conflict instead of overwriting a
// concurrent change.
type (
	OrganizationUpdate struct {
		Name        *string
		LockVersion *int
	}
	CollectionUpdate struct {
		Name        *string
		Description *string
		LockVersion *int
	}
	FolderUpdate struct {
		Name        *string
		LockVersion *int
	}
	PasswordUpdate struct {
		Name        *string
		Username    *string
		Secret      *string
		URLs        *[]string
		Notes       *string
		LockVersion *int
	}
)

// UpdateOrganization renames an organization.
func (s *Service) UpdateOrganization(user *identity.Identity, id string, upd OrganizationUpdate) (*store.Organization, error) {
	var updated *store.Organization
	err := s.store.Transaction(func(st store.Store) error {
		o, err := st.Organization(id)
		if err != nil {
			return err
		}
		if o.Deleted {
			return fmt.Errorf("%w: organization %s", vault.ErrNotFound, id)
		}
		if err := s.requireWriteIn(st, user, vault.KindOrganization, id); err != nil {
			return err
		}

		if upd.Name != nil && *upd.Name != o.Name {
			if err := checkName(st, vault.KindOrganization, user.TenantID, store.ParentRef{}, *upd.Name); err != nil {
				return err
			}
			o.Name = *upd.Name
		}
		if upd.LockVersion != nil {
			o.LockVersion = *upd.LockVersion
		}
		o.UpdatedAt = time.Now().UTC()
		if err := st.UpdateOrganization(o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateCollection changes a collection's name or description.
func (s *Service) UpdateCollection(user *identity.Identity, id string, upd CollectionUpdate) (*store.Collection, error) {
	var updated *store.Collection
	err := s.store.Transaction(func(st store.Store) error {
		c, err := st.Collection(id)
		if err != nil {
			return err
		}
		if c.Deleted {
			return fmt.Errorf("%w: collection %s", vault.ErrNotFound, id)
		}
		if err := s.requireWriteIn(st, user, vault.KindCollection, id); err != nil {
			return err
		}

		if upd.Name != nil && *upd.Name != c.Name {
			parentRef := store.ParentRef{Kind: vault.KindOrganization, ID: c.OrgID}
			if err := checkName(st, vault.KindCollection, user.TenantID, parentRef, *upd.Name); err != nil {
				return err
			}
			c.Name = *upd.Name
		}
		if upd.Description != nil {
			c.Description = *upd.Description
		}
		if upd.LockVersion != nil {
			c.LockVersion = *upd.LockVersion
		}
		c.UpdatedAt = time.Now().UTC()
		if err := st.UpdateCollection(c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateFolder renames a folder. Re-parenting goes through Move.
func (s *Service) UpdateFolder(user *identity.Identity, id string, upd FolderUpdate) (*store.Folder, error) {
	var updated *store.Folder
	err := s.store.Transaction(func(st store.Store) error {
		f, err := st.Folder(id)
		if err != nil {
			return err
		}
		if f.Deleted {
			return fmt.Errorf("%w: folder %s", vault.ErrNotFound, id)
		}
		if err := s.requireWriteIn(st, user, vault.KindFolder, id); err != nil {
			return err
		}

		if upd.Name != nil && *upd.Name != f.Name {
			parentKind, parentID := store.FolderParent(f)
			parentRef := store.ParentRef{Kind: parentKind, ID: parentID}
			if err := checkName(st, vault.KindFolder, user.TenantID, parentRef, *upd.Name); err != nil {
				return err
			}
			f.Name = *upd.Name
		}
		if upd.LockVersion != nil {
			f.LockVersion = *upd.LockVersion
		}
		f.UpdatedAt = time.Now().UTC()
		if err := st.UpdateFolder(f); err != nil {
			return err
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePassword applies a partial update to an entry, re-encrypting
// when a new secret is supplied. LastModifiedAt moves only on secret
// changes.
func (s *Service) UpdatePassword(user *identity.Identity, id string, upd PasswordUpdate) (*store.Password, error) {
	var updated *store.Password
	err := s.store.Transaction(func(st store.Store) error {
		p, err := st.Password(id)
		if err != nil {
			return err
		}
		if p.Deleted {
			return fmt.Errorf("%w: password %s", vault.ErrNotFound, id)
		}
		if err := s.requireWriteIn(st, user, vault.KindPassword, id); err != nil {
			return err
		}

		now := time.Now().UTC()
		if upd.Name != nil && *upd.Name != p.Name {
			parentKind, parentID := store.PasswordParent(p)
			parentRef := store.ParentRef{Kind: parentKind, ID: parentID}
			if err := checkName(st, vault.KindPassword, user.TenantID, parentRef, *upd.Name); err != nil {
				return err
			}
			p.Name = *upd.Name
		}
		if upd.Username != nil {
			p.Username = *upd.Username
		}
		if upd.URLs != nil {
			p.URLs = *upd.URLs
		}
		if upd.Notes != nil {
			p.Notes = *upd.Notes
		}
		if upd.Secret != nil {
			cipher, err := s.cipherFor(user.TenantID)
			if err != nil {
				return err
			}
			secret, err := cipher.Encrypt([]byte(p.ID), []byte(*upd.Secret))
			if err != nil {
				return err
			}
			p.Secret = secret
			p.LastModifiedAt = now
		}
		if upd.LockVersion != nil {
			p.LockVersion = *upd.LockVersion
		}
		p.UpdatedAt = now
		if err := st.UpdatePassword(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated.Secret = []byte(Redacted)
	return updated, nil
}

// Delete trashes an entity and its whole live subtree in one atomic
// step, recording snapshots through the trash manager. Requires write
// access on the entity.
func (s *Service) Delete(user *identity.Identity, kind vault.EntityKind, id string) (int, error) {
	var count int
	err := s.store.Transaction(func(st store.Store) error {
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

		// Serialize against concurrent moves and deletes touching the
		// same subtree.
		if err := st.LockNode(kind, id); err != nil {
			return err
		}
		if node.HasParent() {
			if err := st.LockNode(node.ParentKind, node.ParentID); err != nil {
				return err
			}
		}

		path, err := ancestorPath(st, node)
		if err != nil {
			return err
		}
		count, err = s.trash.Cascade(st, user, node, path)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) requireWriteIn(st store.Store, user *identity.Identity, kind vault.EntityKind, id string) error {
	node, err := st.Node(kind, id)
	if err != nil {
		return err
	}
	return requireWrite(st, user, node)
}
