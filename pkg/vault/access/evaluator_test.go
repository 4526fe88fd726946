package access_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/access"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/memory"
)

// fixture builds the hierarchy org -> coll -> {folder-a -> pass-1, folder-b}.
func fixture(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	now := time.Now().UTC()

	require.NoError(t, st.CreateOrganization(&store.Organization{
		ID: "org", TenantID: "acme", Name: "Acme", CreatedAt: now,
	}))
	require.NoError(t, st.CreateCollection(&store.Collection{
		ID: "coll", TenantID: "acme", OrgID: "org", Name: "Ops", CreatedAt: now,
	}))
	require.NoError(t, st.CreateFolder(&store.Folder{
		ID: "folder-a", TenantID: "acme", OrgID: "org", CollectionID: "coll", Name: "Servers", CreatedAt: now,
	}))
	require.NoError(t, st.CreateFolder(&store.Folder{
		ID: "folder-b", TenantID: "acme", OrgID: "org", CollectionID: "coll", Name: "Laptops", CreatedAt: now,
	}))
	require.NoError(t, st.CreatePassword(&store.Password{
		ID: "pass-1", TenantID: "acme", OrgID: "org", CollectionID: "coll", FolderID: "folder-a",
		Name: "root@db01", CreatedAt: now,
	}))
	return st
}

func user(id string) *identity.Identity {
	return &identity.Identity{UserID: id, TenantID: "acme"}
}

func TestEvaluateAdminShortCircuit(t *testing.T) {
	st := fixture(t)
	eval := access.NewEvaluator(st)
	admin := &identity.Identity{UserID: "root", TenantID: "acme", Admin: true}

	assert.NoError(t, eval.Evaluate(admin, vault.KindPassword, "pass-1", vault.OpWrite))
	assert.NoError(t, eval.Evaluate(admin, vault.KindOrganization, "org", vault.OpRead))
}

func TestEvaluateAdminWrongTenant(t *testing.T) {
	st := fixture(t)
	eval := access.NewEvaluator(st)
	admin := &identity.Identity{UserID: "root", TenantID: "umbrella", Admin: true}

	err := eval.Evaluate(admin, vault.KindPassword, "pass-1", vault.OpRead)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
}

func TestEvaluateGrantScopes(t *testing.T) {
	tests := []struct {
		name      string
		grant     store.Grant
		kind      vault.EntityKind
		id        string
		op        vault.Operation
		wantAllow bool
	}{
		{
			name:  "org grant covers nested password",
			grant: store.Grant{UserID: "alice", TenantID: "acme", ScopeKind: vault.KindOrganization, ScopeID: "org", Write: true},
			kind:  vault.KindPassword, id: "pass-1", op: vault.OpWrite, wantAllow: true,
		},
		{
			name:  "collection grant covers folder",
			grant: store.Grant{UserID: "alice", TenantID: "acme", ScopeKind: vault.KindCollection, ScopeID: "coll"},
			kind:  vault.KindFolder, id: "folder-b", op: vault.OpRead, wantAllow: true,
		},
		{
			name:  "read grant does not allow write",
			grant: store.Grant{UserID: "alice", TenantID: "acme", ScopeKind: vault.KindCollection, ScopeID: "coll"},
			kind:  vault.KindPassword, id: "pass-1", op: vault.OpWrite, wantAllow: false,
		},
		{
			name:  "folder grant does not reach sibling",
			grant: store.Grant{UserID: "alice", TenantID: "acme", ScopeKind: vault.KindFolder, ScopeID: "folder-b", Write: true},
			kind:  vault.KindPassword, id: "pass-1", op: vault.OpRead, wantAllow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := fixture(t)
			require.NoError(t, st.CreateGrant(&tt.grant))
			err := access.NewEvaluator(st).Evaluate(user("alice"), tt.kind, tt.id, tt.op)
			if tt.wantAllow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, vault.ErrPermissionDenied)
			}
		})
	}
}

func TestEvaluateFolderShare(t *testing.T) {
	st := fixture(t)
	require.NoError(t, st.CreateShare(&store.Share{
		EntityKind: vault.KindFolder, EntityID: "folder-a", UserID: "bob",
	}))
	eval := access.NewEvaluator(st)

	// The share covers the folder and everything beneath it, read-only.
	assert.NoError(t, eval.Evaluate(user("bob"), vault.KindFolder, "folder-a", vault.OpRead))
	assert.NoError(t, eval.Evaluate(user("bob"), vault.KindPassword, "pass-1", vault.OpRead))

	// It confers nothing on the sibling folder or on writes.
	assert.ErrorIs(t, eval.Evaluate(user("bob"), vault.KindFolder, "folder-b", vault.OpRead), vault.ErrPermissionDenied)
	assert.ErrorIs(t, eval.Evaluate(user("bob"), vault.KindFolder, "folder-b", vault.OpWrite), vault.ErrPermissionDenied)
	assert.ErrorIs(t, eval.Evaluate(user("bob"), vault.KindPassword, "pass-1", vault.OpWrite), vault.ErrPermissionDenied)
}

func TestEvaluateWritableShare(t *testing.T) {
	st := fixture(t)
	require.NoError(t, st.CreateShare(&store.Share{
		EntityKind: vault.KindCollection, EntityID: "coll", UserID: "carol", Write: true,
	}))
	eval := access.NewEvaluator(st)

	assert.NoError(t, eval.Evaluate(user("carol"), vault.KindPassword, "pass-1", vault.OpWrite))
	assert.NoError(t, eval.Evaluate(user("carol"), vault.KindFolder, "folder-b", vault.OpWrite))
	assert.ErrorIs(t, eval.Evaluate(user("carol"), vault.KindOrganization, "org", vault.OpWrite), vault.ErrPermissionDenied)
}

func TestEvaluateNoAccess(t *testing.T) {
	st := fixture(t)
	err := access.NewEvaluator(st).Evaluate(user("mallory"), vault.KindPassword, "pass-1", vault.OpRead)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
}

func TestEvaluateMissingEntity(t *testing.T) {
	st := fixture(t)
	err := access.NewEvaluator(st).Evaluate(user("alice"), vault.KindPassword, "nope", vault.OpRead)
	require.Error(t, err)
	assert.ErrorIs(t, err, vault.ErrNotFound)
	assert.False(t, errors.Is(err, vault.ErrPermissionDenied))
}
