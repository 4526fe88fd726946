package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
)

func RegisterFoldersEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/folders", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			OrgID        string `json:"org_id"`
			CollectionID string `json:"collection_id"`
			ParentID     string `json:"parent_id"`
			Name         string `json:"name"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		created, err := srv.Entities.CreateFolder(user, entity.NewFolder{
			OrgID:        body.OrgID,
			CollectionID: body.CollectionID,
			ParentID:     body.ParentID,
			Name:         body.Name,
		})
		logEntityEvent(user, "create", vault.KindFolder, createdID(created != nil, func() string { return created.ID }), err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, created)
	}).Methods("POST")

	r.HandleFunc("/folders/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		folder, err := srv.Entities.GetFolder(user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, folder)
	}).Methods("GET")

	r.HandleFunc("/folders/{id}", func(w http.ResponseWriter, req *http.Request) {
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
		updated, err := srv.Entities.UpdateFolder(user, id, entity.FolderUpdate{
			Name:        body.Name,
			LockVersion: body.LockVersion,
		})
		logEntityEvent(user, "update", vault.KindFolder, id, err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, updated)
	}).Methods("PATCH")

	r.HandleFunc("/folders/{id}", handleDelete(srv, vault.KindFolder)).Methods("DELETE")
	r.HandleFunc("/folders/{id}/move", handleMove(srv, vault.KindFolder)).Methods("POST")
	r.HandleFunc("/folders/{id}/children", handleChildren(srv, vault.KindFolder)).Methods("GET")
}
