// Package entity implements the vault's entity operations: validated
// create/update/move/delete over the organization/collection/folder/
// password hierarchy, access-checked reads, decrypt-on-read, and
// paginated child listing. Secrets are encrypted before persistence and
// redacted on default retrieval.
package entity

import (
	"fmt"

	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/access"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/trash"
)

// Redacted replaces a password's secret on default retrieval, so that
// get and list paths never implicitly decrypt.
const Redacted = "****"

// DefaultListLimit caps ListChildren pages when no limit is configured.
const DefaultListLimit = 50

// Service is the entity store. Every mutation runs inside a store
// transaction and passes the access evaluator before touching rows.
type Service struct {
	store     store.Store
	keys      keyprovider.Provider
	trash     *trash.Manager
	listLimit int
}

// NewService wires the entity store to its persistence, key provider and
// trash manager. listLimit caps ListChildren pages; <= 0 selects
// DefaultListLimit.
func NewService(st store.Store, keys keyprovider.Provider, trashMgr *trash.Manager, listLimit int) *Service {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &Service{store: st, keys: keys, trash: trashMgr, listLimit: listLimit}
}

// cipherFor derives the tenant's working cipher. Key provider failures
// are key failures, not availability failures.
func (s *Service) cipherFor(tenantID string) (crypto.Cipher, error) {
	key, err := s.keys.Key(tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: no key for tenant: %v", crypto.ErrInvalidKey, err)
	}
	return crypto.NewCipher(key)
}

// liveParent resolves a parent reference for a create or move. Missing,
// trashed or foreign-tenant parents are all invalid references.
func liveParent(st store.Store, tenantID string, ref store.ParentRef) (*store.Node, error) {
	node, err := st.Node(ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: parent %s %s: %v", vault.ErrValidation, ref.Kind, ref.ID, err)
	}
	if node.TenantID != tenantID || node.Deleted {
		return nil, fmt.Errorf("%w: parent %s %s is not live", vault.ErrValidation, ref.Kind, ref.ID)
	}
	return node, nil
}

// checkName enforces sibling-name uniqueness within the parent scope.
func checkName(st store.Store, kind vault.EntityKind, tenantID string, parent store.ParentRef, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", vault.ErrValidation)
	}
	taken, err := st.NameTaken(kind, tenantID, parent, name)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s named %q already exists in this scope", vault.ErrConflict, kind, name)
	}
	return nil
}

// requireWrite checks op eligibility against the transaction's view.
func requireWrite(st store.Store, user *identity.Identity, node *store.Node) error {
	return access.NewEvaluator(st).EvaluateNode(user, node, vault.OpWrite)
}

func requireRead(st store.Store, user *identity.Identity, node *store.Node) error {
	return access.NewEvaluator(st).EvaluateNode(user, node, vault.OpRead)
}

// ancestorPath renders the names of a node's ancestors root-first, the
// form trash items record as the deleted-from location.
func ancestorPath(st store.Store, node *store.Node) (string, error) {
	var names []string
	current := node
	for depth := 0; current.HasParent(); depth++ {
		if depth >= 256 {
			return "", fmt.Errorf("%w: parent chain of %s %s does not terminate", vault.ErrValidation, node.Kind, node.ID)
		}
		parent, err := st.Node(current.ParentKind, current.ParentID)
		if err != nil {
			return "", err
		}
		names = append([]string{parent.Name}, names...)
		current = parent
	}

	path := ""
	for i, name := range names {
		if i > 0 {
			path += "/"
		}
		path += name
	}
	return path, nil
}
