package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/memory"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/trash"
)

var (
	admin  = &identity.Identity{UserID: "root", TenantID: "acme", Admin: true}
	member = &identity.Identity{UserID: "alice", TenantID: "acme"}
)

func newService(t *testing.T) (*entity.Service, *memory.Store, *trash.Manager) {
	t.Helper()
	st := memory.New()
	mgr := trash.NewManager(st)
	return entity.NewService(st, staticKeys(t, 0), mgr, 10), st, mgr
}

func staticKeys(t *testing.T, firstByte byte) keyprovider.Provider {
	t.Helper()
	dataKey := make([]byte, keyprovider.DataKeySize)
	dataKey[0] = firstByte
	keys, err := keyprovider.NewStatic(dataKey)
	require.NoError(t, err)
	return keys
}

// buildTree creates Acme -> Ops -> Servers -> root@db01 (secret s3cr3t)
// and returns the four entities.
func buildTree(t *testing.T, svc *entity.Service) (*store.Organization, *store.Collection, *store.Folder, *store.Password) {
	t.Helper()

	org, err := svc.CreateOrganization(admin, entity.NewOrganization{Name: "Acme"})
	require.NoError(t, err)

	coll, err := svc.CreateCollection(admin, entity.NewCollection{OrgID: org.ID, Name: "Ops"})
	require.NoError(t, err)

	folder, err := svc.CreateFolder(admin, entity.NewFolder{CollectionID: coll.ID, Name: "Servers"})
	require.NoError(t, err)
	assert.Equal(t, org.ID, folder.OrgID)

	pass, err := svc.CreatePassword(admin, entity.NewPassword{
		FolderID: folder.ID, Name: "root@db01", Username: "root", Secret: "s3cr3t",
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, pass.OrgID)
	assert.Equal(t, coll.ID, pass.CollectionID)

	return org, coll, folder, pass
}

func TestCreateOrganizationRequiresAdmin(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.CreateOrganization(member, entity.NewOrganization{Name: "Acme"})
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
}

func TestCreateValidatesParents(t *testing.T) {
	svc, _, _ := newService(t)
	org, _, folder, _ := buildTree(t, svc)

	_, err := svc.CreateCollection(admin, entity.NewCollection{OrgID: "nope", Name: "Eng"})
	assert.ErrorIs(t, err, vault.ErrValidation)

	_, err = svc.CreateFolder(admin, entity.NewFolder{Name: "orphan"})
	assert.ErrorIs(t, err, vault.ErrValidation)

	// Contradictory ancestor references are rejected.
	_, err = svc.CreatePassword(admin, entity.NewPassword{
		OrgID: "other-org", FolderID: folder.ID, Name: "x", Secret: "s",
	})
	assert.ErrorIs(t, err, vault.ErrValidation)

	_ = org
}

func TestCreateDuplicateSiblingName(t *testing.T) {
	svc, _, _ := newService(t)
	org, coll, folder, _ := buildTree(t, svc)

	_, err := svc.CreateCollection(admin, entity.NewCollection{OrgID: org.ID, Name: "Ops"})
	assert.ErrorIs(t, err, vault.ErrConflict)

	_, err = svc.CreateFolder(admin, entity.NewFolder{CollectionID: coll.ID, Name: "Servers"})
	assert.ErrorIs(t, err, vault.ErrConflict)

	// The same name under a different parent is fine.
	_, err = svc.CreateFolder(admin, entity.NewFolder{ParentID: folder.ID, Name: "Servers"})
	assert.NoError(t, err)
}

func TestGetPasswordRedactsSecret(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, _, pass := buildTree(t, svc)

	got, err := svc.GetPassword(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte(entity.Redacted), got.Secret)
}

func TestRevealSecretRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, _, pass := buildTree(t, svc)

	plaintext, err := svc.RevealSecret(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", plaintext)
}

func TestRevealSecretWrongTenantKey(t *testing.T) {
	st := memory.New()
	mgr := trash.NewManager(st)
	svc := entity.NewService(st, staticKeys(t, 0), mgr, 10)
	_, _, _, pass := buildTree(t, svc)

	// Same rows, rotated data key: the ciphertext must not decrypt.
	rotated := entity.NewService(st, staticKeys(t, 1), mgr, 10)

	_, err := rotated.RevealSecret(admin, pass.ID)
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestReadAccessControl(t *testing.T) {
	svc, st, _ := newService(t)
	_, _, folder, pass := buildTree(t, svc)

	_, err := svc.GetPassword(member, pass.ID)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
	_, err = svc.RevealSecret(member, pass.ID)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)

	require.NoError(t, st.CreateShare(&store.Share{
		EntityKind: vault.KindFolder, EntityID: folder.ID, UserID: "alice",
	}))

	got, err := svc.GetPassword(member, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte(entity.Redacted), got.Secret)

	// Read share does not permit updates.
	_, err = svc.UpdatePassword(member, pass.ID, entity.PasswordUpdate{Notes: strPtr("n")})
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
}

func TestUpdatePasswordReEncrypts(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, _, pass := buildTree(t, svc)

	_, err := svc.UpdatePassword(admin, pass.ID, entity.PasswordUpdate{Secret: strPtr("n3w")})
	require.NoError(t, err)

	plaintext, err := svc.RevealSecret(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, "n3w", plaintext)
}

func TestUpdateStaleLockVersion(t *testing.T) {
	svc, _, _ := newService(t)
	_, coll, _, _ := buildTree(t, svc)

	_, err := svc.UpdateCollection(admin, coll.ID, entity.CollectionUpdate{Description: strPtr("first")})
	require.NoError(t, err)

	// The original LockVersion is now stale.
	stale := coll.LockVersion
	_, err = svc.UpdateCollection(admin, coll.ID, entity.CollectionUpdate{
		Description: strPtr("second"), LockVersion: &stale,
	})
	assert.ErrorIs(t, err, vault.ErrConflict)
}

func TestMoveFolderCycle(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, folder, _ := buildTree(t, svc)

	child, err := svc.CreateFolder(admin, entity.NewFolder{ParentID: folder.ID, Name: "db"})
	require.NoError(t, err)
	grandchild, err := svc.CreateFolder(admin, entity.NewFolder{ParentID: child.ID, Name: "replicas"})
	require.NoError(t, err)

	err = svc.Move(admin, vault.KindFolder, folder.ID, store.ParentRef{Kind: vault.KindFolder, ID: grandchild.ID})
	assert.ErrorIs(t, err, vault.ErrValidation)

	err = svc.Move(admin, vault.KindFolder, folder.ID, store.ParentRef{Kind: vault.KindFolder, ID: folder.ID})
	assert.ErrorIs(t, err, vault.ErrValidation)

	// The failed moves left the tree unchanged.
	got, err := svc.GetFolder(admin, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID)
}

func TestMoveToCurrentParentIsNoOp(t *testing.T) {
	svc, _, _ := newService(t)
	_, coll, folder, pass := buildTree(t, svc)

	// The entity's own name must not count as a sibling clash.
	err := svc.Move(admin, vault.KindFolder, folder.ID, store.ParentRef{Kind: vault.KindCollection, ID: coll.ID})
	require.NoError(t, err)

	err = svc.Move(admin, vault.KindPassword, pass.ID, store.ParentRef{Kind: vault.KindFolder, ID: folder.ID})
	require.NoError(t, err)

	got, err := svc.GetPassword(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.FolderID)
}

func TestMovePasswordAcrossFolders(t *testing.T) {
	svc, _, _ := newService(t)
	org, _, _, pass := buildTree(t, svc)

	coll2, err := svc.CreateCollection(admin, entity.NewCollection{OrgID: org.ID, Name: "Eng"})
	require.NoError(t, err)
	dest, err := svc.CreateFolder(admin, entity.NewFolder{CollectionID: coll2.ID, Name: "Laptops"})
	require.NoError(t, err)

	err = svc.Move(admin, vault.KindPassword, pass.ID, store.ParentRef{Kind: vault.KindFolder, ID: dest.ID})
	require.NoError(t, err)

	got, err := svc.GetPassword(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, dest.ID, got.FolderID)
	assert.Equal(t, coll2.ID, got.CollectionID)

	// The secret still decrypts; the AAD is the entry id, not its place.
	plaintext, err := svc.RevealSecret(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", plaintext)
}

func TestMoveFolderRewritesDescendants(t *testing.T) {
	svc, _, _ := newService(t)
	org, _, folder, pass := buildTree(t, svc)

	coll2, err := svc.CreateCollection(admin, entity.NewCollection{OrgID: org.ID, Name: "Eng"})
	require.NoError(t, err)

	err = svc.Move(admin, vault.KindFolder, folder.ID, store.ParentRef{Kind: vault.KindCollection, ID: coll2.ID})
	require.NoError(t, err)

	got, err := svc.GetPassword(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, coll2.ID, got.CollectionID)
}

func TestMoveCollectionUnderFolderRejected(t *testing.T) {
	svc, _, _ := newService(t)
	_, coll, folder, _ := buildTree(t, svc)

	err := svc.Move(admin, vault.KindCollection, coll.ID, store.ParentRef{Kind: vault.KindFolder, ID: folder.ID})
	assert.ErrorIs(t, err, vault.ErrValidation)
}

func TestDeleteCascadesAndRestoreRebuildsTree(t *testing.T) {
	svc, _, mgr := newService(t)
	_, coll, folder, pass := buildTree(t, svc)

	count, err := svc.Delete(admin, vault.KindCollection, coll.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = svc.GetPassword(admin, pass.ID)
	assert.ErrorIs(t, err, vault.ErrNotFound)

	// Restore level by level, then the secret decrypts as before.
	items, err := mgr.List(admin, nil, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, entityID := range []string{coll.ID, folder.ID, pass.ID} {
		for _, item := range items {
			if item.EntityID == entityID {
				_, err := mgr.Restore(admin, item.ID)
				require.NoError(t, err)
			}
		}
	}

	plaintext, err := svc.RevealSecret(admin, pass.ID)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", plaintext)
}

func TestListChildrenPaginates(t *testing.T) {
	svc, _, _ := newService(t)
	org, coll, _, _ := buildTree(t, svc)

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := svc.CreateFolder(admin, entity.NewFolder{CollectionID: coll.ID, Name: name})
		require.NoError(t, err)
	}

	parent := store.ParentRef{Kind: vault.KindCollection, ID: coll.ID}
	var seen []string
	cursor := ""
	for {
		page, next, err := svc.ListChildren(admin, parent, cursor, 2)
		require.NoError(t, err)
		for _, n := range page {
			seen = append(seen, n.Name)
		}
		if next == "" {
			break
		}
		require.Len(t, page, 2)
		cursor = next
	}
	// Creation order, Servers first.
	assert.Equal(t, []string{"Servers", "a", "b", "c", "d"}, seen)

	_, _, err := svc.ListChildren(admin, parent, "not-a-cursor", 2)
	assert.ErrorIs(t, err, vault.ErrValidation)

	_, _, err = svc.ListChildren(admin, store.ParentRef{Kind: vault.KindOrganization, ID: "nope"}, "", 2)
	assert.ErrorIs(t, err, vault.ErrNotFound)

	_ = org
}

func strPtr(s string) *string { return &s }
