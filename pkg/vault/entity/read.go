package entity

import (
	"fmt"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// GetOrganization returns a live organization the user may read.
func (s *Service) GetOrganization(user *identity.Identity, id string) (*store.Organization, error) {
	o, err := s.store.Organization(id)
	if err != nil {
		return nil, err
	}
	if o.Deleted {
		return nil, fmt.Errorf("%w: organization %s", vault.ErrNotFound, id)
	}
	if err := s.requireReadOn(user, vault.KindOrganization, id); err != nil {
		return nil, err
	}
	return o, nil
}

// GetCollection returns a live collection the user may read.
func (s *Service) GetCollection(user *identity.Identity, id string) (*store.Collection, error) {
	c, err := s.store.Collection(id)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, fmt.Errorf("%w: collection %s", vault.ErrNotFound, id)
	}
	if err := s.requireReadOn(user, vault.KindCollection, id); err != nil {
		return nil, err
	}
	return c, nil
}

// GetFolder returns a live folder the user may read.
func (s *Service) GetFolder(user *identity.Identity, id string) (*store.Folder, error) {
	f, err := s.store.Folder(id)
	if err != nil {
		return nil, err
	}
	if f.Deleted {
		return nil, fmt.Errorf("%w: folder %s", vault.ErrNotFound, id)
	}
	if err := s.requireReadOn(user, vault.KindFolder, id); err != nil {
		return nil, err
	}
	return f, nil
}

// GetPassword returns a live entry with the secret redacted. Plaintext
// only leaves the vault through RevealSecret.
func (s *Service) GetPassword(user *identity.Identity, id string) (*store.Password, error) {
	p, err := s.getLivePassword(user, id)
	if err != nil {
		return nil, err
	}
	p.Secret = []byte(Redacted)
	return p, nil
}

// RevealSecret decrypts an entry's secret for a reader. The plaintext
// exists only in the returned value; nothing is cached.
func (s *Service) RevealSecret(user *identity.Identity, id string) (string, error) {
	p, err := s.getLivePassword(user, id)
	if err != nil {
		return "", err
	}

	cipher, err := s.cipherFor(user.TenantID)
	if err != nil {
		return "", err
	}
	plaintext, err := cipher.Decrypt([]byte(p.ID), p.Secret)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// ListChildren pages the live direct children of a parent in
// (created_at, id) order. after is an opaque cursor from a previous
// page; the returned cursor is empty on the last page.
func (s *Service) ListChildren(user *identity.Identity, parent store.ParentRef, after string, limit int) ([]store.Node, string, error) {
	cursor, err := store.ParseCursor(after)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	parentNode, err := s.store.Node(parent.Kind, parent.ID)
	if err != nil {
		return nil, "", err
	}
	if parentNode.Deleted {
		return nil, "", fmt.Errorf("%w: %s %s", vault.ErrNotFound, parent.Kind, parent.ID)
	}
	if err := requireRead(s.store, user, parentNode); err != nil {
		return nil, "", err
	}

	// One extra row decides whether a next page exists.
	children, err := s.store.Children(parent, cursor, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(children) > limit {
		children = children[:limit]
		last := children[len(children)-1]
		next = (&store.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}).String()
	}
	return children, next, nil
}

func (s *Service) getLivePassword(user *identity.Identity, id string) (*store.Password, error) {
	p, err := s.store.Password(id)
	if err != nil {
		return nil, err
	}
	if p.Deleted {
		return nil, fmt.Errorf("%w: password %s", vault.ErrNotFound, id)
	}
	if err := s.requireReadOn(user, vault.KindPassword, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) requireReadOn(user *identity.Identity, kind vault.EntityKind, id string) error {
	node, err := s.store.Node(kind, id)
	if err != nil {
		return err
	}
	return requireRead(s.store, user, node)
}
