// Package access decides read/write eligibility for a user against any
// hierarchy entity. The model is allow-only: tenant admins pass
// unconditionally, coarse grants cover whole scopes, and per-entity
// shares overlay finer-grained access. There is no explicit deny.
package access

import (
	"fmt"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

// maxChainDepth bounds the ancestor walk; a well-formed tree never gets
// close, a corrupted one must not loop forever.
const maxChainDepth = 256

// Evaluator evaluates access against the grant and share state visible
// through one store. It is stateless across calls: grants can change
// between requests, so nothing is cached.
type Evaluator struct {
	store store.Store
}

// NewEvaluator binds an evaluator to a store, typically the store of the
// surrounding transaction.
func NewEvaluator(st store.Store) *Evaluator {
	return &Evaluator{store: st}
}

// Evaluate returns nil if the user may perform op on the entity, and
// vault.ErrPermissionDenied otherwise. Missing entities surface as
// vault.ErrNotFound.
func (e *Evaluator) Evaluate(user *identity.Identity, kind vault.EntityKind, id string, op vault.Operation) error {
	node, err := e.store.Node(kind, id)
	if err != nil {
		return err
	}
	return e.EvaluateNode(user, node, op)
}

// EvaluateNode is Evaluate for an already-fetched node.
func (e *Evaluator) EvaluateNode(user *identity.Identity, node *store.Node, op vault.Operation) error {
	// Cross-tenant references are forbidden outright; a foreign tenant's
	// entity is indistinguishable from a denied one.
	if node.TenantID != user.TenantID {
		return denied(user, node, op)
	}

	if user.Admin {
		return nil
	}

	chain, err := e.ancestorChain(node)
	if err != nil {
		return err
	}

	grants, err := e.store.GrantsForUser(user.TenantID, user.UserID)
	if err != nil {
		return err
	}

	for _, link := range chain {
		for _, grant := range grants {
			if grant.ScopeKind != link.Kind || grant.ScopeID != link.ID {
				continue
			}
			if op == vault.OpRead || grant.Write {
				return nil
			}
		}
	}

	// Shares only exist on collections and folders, but the shared grant
	// covers everything beneath them, so the whole chain is consulted.
	for _, link := range chain {
		if link.Kind != vault.KindCollection && link.Kind != vault.KindFolder {
			continue
		}
		shares, err := e.store.SharesForEntity(link.Kind, link.ID)
		if err != nil {
			return err
		}
		for _, share := range shares {
			if share.UserID != user.UserID {
				continue
			}
			if op == vault.OpRead || share.Write {
				return nil
			}
		}
	}

	return denied(user, node, op)
}

// ancestorChain returns the node and its ancestors up to and including
// the organization, bounded by depth and a visited set.
func (e *Evaluator) ancestorChain(node *store.Node) ([]store.Node, error) {
	chain := []store.Node{*node}
	visited := map[string]bool{node.ID: true}

	current := node
	for depth := 0; current.HasParent(); depth++ {
		if depth >= maxChainDepth || visited[current.ParentID] {
			return nil, fmt.Errorf("%w: parent chain of %s %s does not terminate", vault.ErrValidation, node.Kind, node.ID)
		}

		parent, err := e.store.Node(current.ParentKind, current.ParentID)
		if err != nil {
			return nil, err
		}

		chain = append(chain, *parent)
		visited[parent.ID] = true
		current = parent
	}

	return chain, nil
}

func denied(user *identity.Identity, node *store.Node, op vault.Operation) error {
	return fmt.Errorf("%w: user %s may not %s %s %s",
		vault.ErrPermissionDenied, user.UserID, op, node.Kind, node.ID)
}
