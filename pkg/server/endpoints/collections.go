package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
)

func RegisterCollectionsEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/collections", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			OrgID       string `json:"org_id"`
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		created, err := srv.Entities.CreateCollection(user, entity.NewCollection{
			OrgID:       body.OrgID,
			Name:        body.Name,
			Description: body.Description,
		})
		logEntityEvent(user, "create", vault.KindCollection, createdID(created != nil, func() string { return created.ID }), err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, created)
	}).Methods("POST")

	r.HandleFunc("/collections/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		coll, err := srv.Entities.GetCollection(user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, coll)
	}).Methods("GET")

	r.HandleFunc("/collections/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			LockVersion *int    `json:"lock_version"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		updated, err := srv.Entities.UpdateCollection(user, id, entity.CollectionUpdate{
			Name:        body.Name,
			Description: body.Description,
			LockVersion: body.LockVersion,
		})
		logEntityEvent(user, "update", vault.KindCollection, id, err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}).Methods("PATCH")

	r.HandleFunc("/collections/{id}", handleDelete(srv, vault.KindCollection)).Methods("DELETE")
	r.HandleFunc("/collections/{id}/move", handleMove(srv, vault.KindCollection)).Methods("POST")
	r.HandleFunc("/collections/{id}/children", handleChildren(srv, vault.KindCollection)).Methods("GET")
}
