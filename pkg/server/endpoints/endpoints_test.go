package endpoints_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/vault-in-go/pkg/attachment"
	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store/memory"
)

var signingKey = []byte("test-signing-key")

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	keys, err := keyprovider.NewStatic(bytes.Repeat([]byte{0x42}, keyprovider.DataKeySize))
	require.NoError(t, err)
	resolver, err := attachment.NewLocalResolver("http://blobs.local/vault")
	require.NoError(t, err)

	conf := &config.VaultConfig{
		ListLimitMax:     100,
		TokenTTL:         480,
		AttachmentURLTTL: 900,
		BindAddress:      "127.0.0.1",
		Port:             0,
	}

	srv := server.NewServer(memory.New(), keys, resolver, conf, signingKey, nil)
	endpoints.RegisterAll(srv)
	return srv
}

func tokenFor(t *testing.T, id *identity.Identity) string {
	t.Helper()
	token, err := identity.IssueToken(id, signingKey, time.Hour)
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	return tokenFor(t, &identity.Identity{UserID: "root", TenantID: "acme", Admin: true})
}

func memberToken(t *testing.T) string {
	return tokenFor(t, &identity.Identity{UserID: "alice", TenantID: "acme"})
}

func doJSON(t *testing.T, srv *server.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), into))
}

// createTree builds org -> collection -> folder -> password over the API
// and returns the ids.
func createTree(t *testing.T, srv *server.Server, token string) (orgID, collID, folderID, passID string) {
	t.Helper()

	var created struct {
		ID string `json:"id"`
	}

	resp := doJSON(t, srv, "POST", "/organizations", token, map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	decodeBody(t, resp, &created)
	orgID = created.ID

	resp = doJSON(t, srv, "POST", "/collections", token, map[string]string{"org_id": orgID, "name": "Ops"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	decodeBody(t, resp, &created)
	collID = created.ID

	resp = doJSON(t, srv, "POST", "/folders", token, map[string]string{"collection_id": collID, "name": "Servers"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	decodeBody(t, resp, &created)
	folderID = created.ID

	resp = doJSON(t, srv, "POST", "/passwords", token, map[string]string{
		"folder_id": folderID, "name": "root@db01", "secret": "s3cr3t",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	decodeBody(t, resp, &created)
	passID = created.ID

	return orgID, collID, folderID, passID
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, "GET", "/organizations/some-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, srv, "GET", "/organizations/some-id", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestStatusBypassesAuth(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, "GET", "/status", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	var status map[string]string
	decodeBody(t, resp, &status)
	assert.Equal(t, "ok", status["status"])
}

func TestPasswordLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, _, _, passID := createTree(t, srv, token)

	// The password body is always redacted.
	resp := doJSON(t, srv, "GET", "/passwords/"+passID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var pass struct {
		Secret string `json:"secret"`
	}
	decodeBody(t, resp, &pass)
	assert.Equal(t, "****", pass.Secret)

	// The value endpoint serves the plaintext, uncached.
	resp = doJSON(t, srv, "GET", "/passwords/"+passID+"/value", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "s3cr3t", resp.Body.String())
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))
}

func TestPasswordUpdateConflict(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, _, _, passID := createTree(t, srv, token)

	stale := 41
	resp := doJSON(t, srv, "PATCH", "/passwords/"+passID, token, map[string]interface{}{
		"name": "root@db02", "lock_version": &stale,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "conflict", body.Error.Code)
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)

	resp := doJSON(t, srv, "POST", "/organizations", token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "validation_failed", body.Error.Code)
}

func TestShareGrantsScopedRead(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t)
	member := memberToken(t)
	_, _, folderID, passID := createTree(t, srv, admin)

	// No access before the share.
	resp := doJSON(t, srv, "GET", "/passwords/"+passID+"/value", member, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(t, srv, "POST", "/shares", admin, map[string]interface{}{
		"user_id": "alice", "entity_kind": "folder", "entity_id": folderID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doJSON(t, srv, "GET", "/passwords/"+passID+"/value", member, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "s3cr3t", resp.Body.String())

	// Read-only share does not extend to writes.
	resp = doJSON(t, srv, "PATCH", "/passwords/"+passID, member, map[string]string{"name": "renamed"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestGrantsAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t)
	member := memberToken(t)
	orgID, _, _, _ := createTree(t, srv, admin)

	resp := doJSON(t, srv, "POST", "/grants", member, map[string]interface{}{
		"user_id": "alice", "scope_kind": "organization", "scope_id": orgID, "write": true,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(t, srv, "POST", "/grants", admin, map[string]interface{}{
		"user_id": "alice", "scope_kind": "organization", "scope_id": orgID, "write": true,
	})
	assert.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// The grant takes effect immediately.
	resp = doJSON(t, srv, "GET", "/organizations/"+orgID, member, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCheckEndpoint(t *testing.T) {
	srv := newTestServer(t)
	admin := adminToken(t)
	member := memberToken(t)
	_, _, _, passID := createTree(t, srv, admin)

	var result map[string]bool

	resp := doJSON(t, srv, "GET", fmt.Sprintf("/check?kind=password&id=%s&op=read", passID), member, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &result)
	assert.False(t, result["allowed"])

	resp = doJSON(t, srv, "GET", fmt.Sprintf("/check?kind=password&id=%s&op=write", passID), admin, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &result)
	assert.True(t, result["allowed"])
}

func TestChildrenPagination(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, collID, _, _ := createTree(t, srv, token)

	for _, name := range []string{"a", "b", "c"} {
		resp := doJSON(t, srv, "POST", "/folders", token, map[string]string{
			"collection_id": collID, "name": name,
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	var page struct {
		Children []struct {
			Name string `json:"name"`
		} `json:"children"`
		Next string `json:"next"`
	}

	resp := doJSON(t, srv, "GET", "/collections/"+collID+"/children?limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &page)
	require.Len(t, page.Children, 2)
	require.NotEmpty(t, page.Next)

	resp = doJSON(t, srv, "GET", "/collections/"+collID+"/children?limit=2&after="+page.Next, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &page)
	assert.NotEmpty(t, page.Children)

	resp = doJSON(t, srv, "GET", "/collections/"+collID+"/children?after=garbage", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestMoveEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, collID, _, passID := createTree(t, srv, token)

	resp := doJSON(t, srv, "POST", "/passwords/"+passID+"/move", token, map[string]string{
		"parent_kind": "collection", "parent_id": collID,
	})
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	// Moving a collection under a folder is not a valid shape.
	var folder struct {
		ID string `json:"id"`
	}
	resp = doJSON(t, srv, "POST", "/folders", token, map[string]string{"collection_id": collID, "name": "misc"})
	require.Equal(t, http.StatusCreated, resp.Code)
	decodeBody(t, resp, &folder)

	resp = doJSON(t, srv, "POST", "/collections/"+collID+"/move", token, map[string]string{
		"parent_kind": "folder", "parent_id": folder.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestTrashFlow(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, collID, _, passID := createTree(t, srv, token)

	// Trashing the collection cascades to folder and password.
	resp := doJSON(t, srv, "DELETE", "/collections/"+collID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var deleted map[string]int
	decodeBody(t, resp, &deleted)
	assert.Equal(t, 3, deleted["trashed"])

	resp = doJSON(t, srv, "GET", "/passwords/"+passID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Non-admins cannot inspect the trash.
	resp = doJSON(t, srv, "GET", "/trash", memberToken(t), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var listing struct {
		Items []struct {
			ID       string `json:"id"`
			EntityID string `json:"entity_id"`
		} `json:"items"`
	}
	resp = doJSON(t, srv, "GET", "/trash", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &listing)
	require.Len(t, listing.Items, 3)

	// Restore the collection, then empty the rest.
	var collItem string
	for _, item := range listing.Items {
		if item.EntityID == collID {
			collItem = item.ID
		}
	}
	require.NotEmpty(t, collItem)

	resp = doJSON(t, srv, "POST", "/trash/"+collItem+"/restore", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, srv, "DELETE", "/trash", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var purged map[string]int
	decodeBody(t, resp, &purged)
	assert.Equal(t, 2, purged["purged"])
}

func TestAttachmentEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := adminToken(t)
	_, _, _, passID := createTree(t, srv, token)

	resp := doJSON(t, srv, "POST", "/passwords/"+passID+"/attachments", token, map[string]interface{}{
		"name": "id_rsa.pub", "mime_type": "text/plain", "size": 412,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Attachment struct {
			ID string `json:"id"`
		} `json:"attachment"`
		UploadURL string `json:"upload_url"`
	}
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.UploadURL)

	resp = doJSON(t, srv, "GET", "/attachments/"+created.Attachment.ID+"/url", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var url map[string]string
	decodeBody(t, resp, &url)
	assert.Contains(t, url["url"], "http://blobs.local/vault")
}
