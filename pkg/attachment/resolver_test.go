package attachment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/vault-in-go/pkg/attachment"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/memory"
)

var (
	admin  = &identity.Identity{UserID: "root", TenantID: "acme", Admin: true}
	member = &identity.Identity{UserID: "alice", TenantID: "acme"}
)

func seedPassword(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	now := time.Now().UTC()

	require.NoError(t, st.CreateOrganization(&store.Organization{
		ID: "org", TenantID: "acme", Name: "Acme", CreatedAt: now,
	}))
	require.NoError(t, st.CreateCollection(&store.Collection{
		ID: "coll", TenantID: "acme", OrgID: "org", Name: "Ops", CreatedAt: now,
	}))
	require.NoError(t, st.CreatePassword(&store.Password{
		ID: "pass", TenantID: "acme", OrgID: "org", CollectionID: "coll",
		Name: "root@db01", Secret: []byte("ciphertext"), CreatedAt: now,
	}))
	return st
}

func newService(st store.Store, t *testing.T) *attachment.Service {
	t.Helper()
	resolver, err := attachment.NewLocalResolver("http://localhost:9000/blobs")
	require.NoError(t, err)
	return attachment.NewService(st, resolver, 15*time.Minute)
}

func TestCreateReturnsUploadURL(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	created, uploadURL, err := svc.Create(context.Background(), admin, "pass", "id_rsa.pub", "text/plain", 412)
	require.NoError(t, err)
	assert.Equal(t, "pass", created.PasswordID)
	assert.Contains(t, created.StorageKey, "tenants/acme/")
	assert.Contains(t, uploadURL, created.StorageKey)
	assert.Contains(t, uploadURL, "expires=")

	// Metadata is persisted under the password.
	list, err := svc.List(admin, "pass")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id_rsa.pub", list[0].Name)
}

func TestCreateRequiresWriteAccess(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	_, _, err := svc.Create(context.Background(), member, "pass", "notes.txt", "text/plain", 9)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)

	// A read-only grant is still not enough to attach.
	require.NoError(t, st.CreateGrant(&store.Grant{
		UserID: member.UserID, TenantID: "acme", ScopeKind: vault.KindCollection, ScopeID: "coll",
	}))
	_, _, err = svc.Create(context.Background(), member, "pass", "notes.txt", "text/plain", 9)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)
}

func TestCreateValidatesName(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	_, _, err := svc.Create(context.Background(), admin, "pass", "", "text/plain", 9)
	assert.ErrorIs(t, err, vault.ErrValidation)
}

func TestDownloadURLWithReadGrant(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	created, _, err := svc.Create(context.Background(), admin, "pass", "id_rsa.pub", "text/plain", 412)
	require.NoError(t, err)

	_, err = svc.DownloadURL(context.Background(), member, created.ID)
	assert.ErrorIs(t, err, vault.ErrPermissionDenied)

	require.NoError(t, st.CreateGrant(&store.Grant{
		UserID: member.UserID, TenantID: "acme", ScopeKind: vault.KindCollection, ScopeID: "coll",
	}))
	url, err := svc.DownloadURL(context.Background(), member, created.ID)
	require.NoError(t, err)
	assert.Contains(t, url, created.StorageKey)
}

func TestDownloadURLUnknownAttachment(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	_, err := svc.DownloadURL(context.Background(), admin, "nope")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestAttachmentsOfTrashedPassword(t *testing.T) {
	st := seedPassword(t)
	svc := newService(st, t)

	_, _, err := svc.Create(context.Background(), admin, "pass", "id_rsa.pub", "text/plain", 412)
	require.NoError(t, err)

	require.NoError(t, st.SetDeleted(vault.KindPassword, "pass", true))
	_, err = svc.List(admin, "pass")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}
