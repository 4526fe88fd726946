package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// NewOrganization carries the fields of an organization create.
type NewOrganization struct {
	Name string
}

// NewCollection carries the fields of a collection create.
type NewCollection struct {
	OrgID       string
	Name        string
	Description string
}

// NewFolder carries the fields of a folder create. The direct parent is
// the most specific reference supplied: ParentID, else CollectionID,
// else OrgID. Ancestor ids are derived from the parent and must not
// contradict any that were supplied.
type NewFolder struct {
	OrgID        string
	CollectionID string
	ParentID     string
	Name         string
}

// NewPassword carries the fields of a password create. Parent resolution
// mirrors NewFolder with FolderID as the most specific reference. Secret
// is plaintext here and ciphertext everywhere below this call.
type NewPassword struct {
	OrgID        string
	CollectionID string
	FolderID     string
	Name         string
	Username     string
	Secret       string
	URLs         []string
	Notes        string
}

// CreateOrganization starts a new hierarchy root. Organizations sit
// above every grantable scope, so only tenant admins create them.
func (s *Service) CreateOrganization(user *identity.Identity, params NewOrganization) (*store.Organization, error) {
	if !user.Admin {
		return nil, fmt.Errorf("%w: user %s may not create organizations", vault.ErrPermissionDenied, user.UserID)
	}

	var created *store.Organization
	err := s.store.Transaction(func(st store.Store) error {
		if err := checkName(st, vault.KindOrganization, user.TenantID, store.ParentRef{}, params.Name); err != nil {
			return err
		}

		now := time.Now().UTC()
		created = &store.Organization{
			ID:        uuid.NewString(),
			TenantID:  user.TenantID,
			Name:      params.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return st.CreateOrganization(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateCollection adds a collection under an organization.
func (s *Service) CreateCollection(user *identity.Identity, params NewCollection) (*store.Collection, error) {
	var created *store.Collection
	err := s.store.Transaction(func(st store.Store) error {
		parentRef := store.ParentRef{Kind: vault.KindOrganization, ID: params.OrgID}
		parent, err := liveParent(st, user.TenantID, parentRef)
		if err != nil {
			return err
		}
		if err := requireWrite(st, user, parent); err != nil {
			return err
		}
		if err := checkName(st, vault.KindCollection, user.TenantID, parentRef, params.Name); err != nil {
			return err
		}

		now := time.Now().UTC()
		created = &store.Collection{
			ID:          uuid.NewString(),
			TenantID:    user.TenantID,
			OrgID:       params.OrgID,
			Name:        params.Name,
			Description: params.Description,
			CreatedBy:   user.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return st.CreateCollection(created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateFolder adds a folder under an organization, collection or parent
// folder.
func (s *Service) CreateFolder(user *identity.Identity, params NewFolder) (*store.Folder, error) {
	var created *store.Folder
	err := s.store.Transaction(func(st store.Store) error {
		folder := &store.Folder{
			ID:           uuid.NewString(),
			TenantID:     user.TenantID,
			OrgID:        params.OrgID,
			CollectionID: params.CollectionID,
			ParentID:     params.ParentID,
			Name:         params.Name,
		}

		parentRef, err := resolveFolderParent(st, folder, params.OrgID, params.CollectionID)
		if err != nil {
			return err
		}
		parent, err := liveParent(st, user.TenantID, parentRef)
		if err != nil {
			return err
		}
		if err := requireWrite(st, user, parent); err != nil {
			return err
		}
		if err := checkName(st, vault.KindFolder, user.TenantID, parentRef, params.Name); err != nil {
			return err
		}

		now := time.Now().UTC()
		folder.CreatedAt = now
		folder.UpdatedAt = now
		created = folder
		return st.CreateFolder(folder)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreatePassword adds an entry under an organization, collection or
// folder, encrypting the secret with the tenant key before it is stored.
// The entry id is the AAD, binding the ciphertext to its row.
func (s *Service) CreatePassword(user *identity.Identity, params NewPassword) (*store.Password, error) {
	cipher, err := s.cipherFor(user.TenantID)
	if err != nil {
		return nil, err
	}

	var created *store.Password
	err = s.store.Transaction(func(st store.Store) error {
		password := &store.Password{
			ID:           uuid.NewString(),
			TenantID:     user.TenantID,
			OrgID:        params.OrgID,
			CollectionID: params.CollectionID,
			FolderID:     params.FolderID,
			Name:         params.Name,
			Username:     params.Username,
			URLs:         params.URLs,
			Notes:        params.Notes,
		}

		parentRef, err := resolvePasswordParent(st, password, params.OrgID, params.CollectionID)
		if err != nil {
			return err
		}
		parent, err := liveParent(st, user.TenantID, parentRef)
		if err != nil {
			return err
		}
		if err := requireWrite(st, user, parent); err != nil {
			return err
		}
		if err := checkName(st, vault.KindPassword, user.TenantID, parentRef, params.Name); err != nil {
			return err
		}

		secret, err := cipher.Encrypt([]byte(password.ID), []byte(params.Secret))
		if err != nil {
			return err
		}
		password.Secret = secret

		now := time.Now().UTC()
		password.CreatedAt = now
		password.UpdatedAt = now
		password.LastModifiedAt = now
		created = password
		return st.CreatePassword(password)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// resolveFolderParent picks the folder's direct parent and fills the
// derived ancestor ids, rejecting contradictions between the supplied
// references and the parent's actual placement.
func resolveFolderParent(st store.Store, f *store.Folder, wantOrg, wantCollection string) (store.ParentRef, error) {
	switch {
	case f.ParentID != "":
		parent, err := st.Folder(f.ParentID)
		if err != nil {
			return store.ParentRef{}, fmt.Errorf("%w: parent folder %s: %v", vault.ErrValidation, f.ParentID, err)
		}
		if wantOrg != "" && wantOrg != parent.OrgID {
			return store.ParentRef{}, fmt.Errorf("%w: parent folder %s is not in organization %s", vault.ErrValidation, f.ParentID, wantOrg)
		}
		if wantCollection != "" && wantCollection != parent.CollectionID {
			return store.ParentRef{}, fmt.Errorf("%w: parent folder %s is not in collection %s", vault.ErrValidation, f.ParentID, wantCollection)
		}
		f.OrgID = parent.OrgID
		f.CollectionID = parent.CollectionID
		return store.ParentRef{Kind: vault.KindFolder, ID: f.ParentID}, nil

	case f.CollectionID != "":
		coll, err := st.Collection(f.CollectionID)
		if err != nil {
			return store.ParentRef{}, fmt.Errorf("%w: collection %s: %v", vault.ErrValidation, f.CollectionID, err)
		}
		if wantOrg != "" && wantOrg != coll.OrgID {
			return store.ParentRef{}, fmt.Errorf("%w: collection %s is not in organization %s", vault.ErrValidation, f.CollectionID, wantOrg)
		}
		f.OrgID = coll.OrgID
		return store.ParentRef{Kind: vault.KindCollection, ID: f.CollectionID}, nil

	case f.OrgID != "":
		return store.ParentRef{Kind: vault.KindOrganization, ID: f.OrgID}, nil
	}

	return store.ParentRef{}, fmt.Errorf("%w: a parent reference is required", vault.ErrValidation)
}

// resolvePasswordParent is resolveFolderParent for entries, with the
// containing folder as the most specific reference.
func resolvePasswordParent(st store.Store, p *store.Password, wantOrg, wantCollection string) (store.ParentRef, error) {
	switch {
	case p.FolderID != "":
		folder, err := st.Folder(p.FolderID)
		if err != nil {
			return store.ParentRef{}, fmt.Errorf("%w: folder %s: %v", vault.ErrValidation, p.FolderID, err)
		}
		if wantOrg != "" && wantOrg != folder.OrgID {
			return store.ParentRef{}, fmt.Errorf("%w: folder %s is not in organization %s", vault.ErrValidation, p.FolderID, wantOrg)
		}
		if wantCollection != "" && wantCollection != folder.CollectionID {
			return store.ParentRef{}, fmt.Errorf("%w: folder %s is not in collection %s", vault.ErrValidation, p.FolderID, wantCollection)
		}
		p.OrgID = folder.OrgID
		p.CollectionID = folder.CollectionID
		return store.ParentRef{Kind: vault.KindFolder, ID: p.FolderID}, nil

	case p.CollectionID != "":
		coll, err := st.Collection(p.CollectionID)
		if err != nil {
			return store.ParentRef{}, fmt.Errorf("%w: collection %s: %v", vault.ErrValidation, p.CollectionID, err)
		}
		if wantOrg != "" && wantOrg != coll.OrgID {
			return store.ParentRef{}, fmt.Errorf("%w: collection %s is not in organization %s", vault.ErrValidation, p.CollectionID, wantOrg)
		}
		p.OrgID = coll.OrgID
		return store.ParentRef{Kind: vault.KindCollection, ID: p.CollectionID}, nil

	case p.OrgID != "":
		return store.ParentRef{Kind: vault.KindOrganization, ID: p.OrgID}, nil
	}

	return store.ParentRef{}, fmt.Errorf("%w: a parent reference is required", vault.ErrValidation)
}
