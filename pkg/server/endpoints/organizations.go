package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
)

func RegisterOrganizationsEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/organizations", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		created, err := srv.Entities.CreateOrganization(user, entity.NewOrganization{Name: body.Name})
		logEntityEvent(user, "create", vault.KindOrganization, createdID(created != nil, func() string { return created.ID }), err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, created)
	}).Methods("POST")

	r.HandleFunc("/organizations/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		org, err := srv.Entities.GetOrganization(user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, org)
	}).Methods("GET")

	r.HandleFunc("/organizations/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			Name        *string `json:"name"`
			LockVersion *int    `json:"lock_version"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		updated, err := srv.Entities.UpdateOrganization(user, id, entity.OrganizationUpdate{
			Name:        body.Name,
			LockVersion: body.LockVersion,
		})
		logEntityEvent(user, "update", vault.KindOrganization, id, err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}).Methods("PATCH")

	r.HandleFunc("/organizations/{id}", handleDelete(srv, vault.KindOrganization)).Methods("DELETE")
	r.HandleFunc("/organizations/{id}/children", handleChildren(srv, vault.KindOrganization)).Methods("GET")
}

func logEntityEvent(user *identity.Identity, operation string, kind vault.EntityKind, id string, err error) {
	middleware.CountOperation(kind.String(), operation, err == nil)
	audit.Log(audit.EntityEvent{
		UserID:       user.UserID,
		ClientIP:     clientIP(user),
		Operation:    operation,
		EntityKind:   kind.String(),
		EntityID:     id,
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
}

// createdID avoids touching a nil result when a create fails.
func createdID(ok bool, id func() string) string {
	if !ok {
		return ""
	}
	return id()
}
