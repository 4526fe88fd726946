package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/access"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

func RegisterAccessEndpoints(srv *server.Server) {
	r := srv.Router

	// Grants are tenant-admin territory.
	r.HandleFunc("/grants", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		if !user.Admin {
			respondWithError(w, fmt.Errorf("%w: only admins manage grants", vault.ErrPermissionDenied))
			return
		}

		var body struct {
			UserID    string `json:"user_id"`
			ScopeKind string `json:"scope_kind"`
			ScopeID   string `json:"scope_id"`
			Write     bool   `json:"write"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		scopeKind, err := vault.EntityKindString(body.ScopeKind)
		if err != nil || scopeKind == vault.KindPassword {
			respondWithError(w, fmt.Errorf("%w: grants cover organizations, collections and folders", vault.ErrValidation))
			return
		}
		node, err := srv.Store.Node(scopeKind, body.ScopeID)
		if err != nil {
			respondWithError(w, err)
			return
		}
		if node.TenantID != user.TenantID {
			respondWithError(w, fmt.Errorf("%w: %s %s", vault.ErrNotFound, scopeKind, body.ScopeID))
			return
		}

		grant := &store.Grant{
			UserID:    body.UserID,
			TenantID:  user.TenantID,
			ScopeKind: scopeKind,
			ScopeID:   body.ScopeID,
			Write:     body.Write,
		}
		if err := srv.Store.CreateGrant(grant); err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, grant)
	}).Methods("POST")

	// A share requires write on the entity being shared.
	r.HandleFunc("/shares", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			UserID     string `json:"user_id"`
			EntityKind string `json:"entity_kind"`
			EntityID   string `json:"entity_id"`
			Write      bool   `json:"write"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		entityKind, err := vault.EntityKindString(body.EntityKind)
		if err != nil || (entityKind != vault.KindCollection && entityKind != vault.KindFolder) {
			respondWithError(w, fmt.Errorf("%w: only collections and folders can be shared", vault.ErrValidation))
			return
		}
		if err := access.NewEvaluator(srv.Store).Evaluate(user, entityKind, body.EntityID, vault.OpWrite); err != nil {
			respondWithError(w, err)
			return
		}

		share := &store.Share{
			EntityKind: entityKind,
			EntityID:   body.EntityID,
			UserID:     body.UserID,
			Write:      body.Write,
		}
		if err := srv.Store.CreateShare(share); err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, share)
	}).Methods("POST")

	// Dry-run permission check.
	r.HandleFunc("/check", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		q := req.URL.Query()
		kind, err := vault.EntityKindString(q.Get("kind"))
		if err != nil {
			respondWithError(w, vault.ErrValidation)
			return
		}
		op := vault.OpRead
		if q.Get("op") == "write" {
			op = vault.OpWrite
		}

		checkErr := access.NewEvaluator(srv.Store).Evaluate(user, kind, q.Get("id"), op)
		allowed := checkErr == nil
		audit.Log(audit.CheckEvent{
			UserID:     user.UserID,
			ClientIP:   clientIP(user),
			EntityKind: kind.String(),
			EntityID:   q.Get("id"),
			Operation:  op.String(),
			Allowed:    allowed,
		})
		if checkErr != nil && !errors.Is(checkErr, vault.ErrPermissionDenied) {
			respondWithError(w, checkErr)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
	}).Methods("GET")
}
