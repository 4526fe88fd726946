package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
)

func RegisterPasswordsEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/passwords", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			OrgID        string   `json:"org_id"`
			CollectionID string   `json:"collection_id"`
			FolderID     string   `json:"folder_id"`
			Name         string   `json:"name"`
			Username     string   `json:"username"`
			Secret       string   `json:"secret"`
			URLs         []string `json:"urls"`
			Notes        string   `json:"notes"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		created, err := srv.Entities.CreatePassword(user, entity.NewPassword{
			OrgID:        body.OrgID,
			CollectionID: body.CollectionID,
			FolderID:     body.FolderID,
			Name:         body.Name,
			Username:     body.Username,
			Secret:       body.Secret,
			URLs:         body.URLs,
			Notes:        body.Notes,
		})
		logEntityEvent(user, "create", vault.KindPassword, createdID(created != nil, func() string { return created.ID }), err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, viewPassword(created))
	}).Methods("POST")

	r.HandleFunc("/passwords/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		pass, err := srv.Entities.GetPassword(user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, viewPassword(pass))
	}).Methods("GET")

	// The only endpoint that serves plaintext. The value goes straight
	// from the decrypt call into the response; nothing retains it.
	r.HandleFunc("/passwords/{id}/value", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		value, err := srv.Entities.RevealSecret(user, id)
		middleware.CountOperation(vault.KindPassword.String(), "reveal", err == nil)
		audit.Log(audit.FetchEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			PasswordID:   id,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(value))
	}).Methods("GET")

	r.HandleFunc("/passwords/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			Name        *string   `json:"name"`
			Username    *string   `json:"username"`
			Secret      *string   `json:"secret"`
			URLs        *[]string `json:"urls"`
			Notes       *string   `json:"notes"`
			LockVersion *int      `json:"lock_version"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		updated, err := srv.Entities.UpdatePassword(user, id, entity.PasswordUpdate{
			Name:        body.Name,
			Username:    body.Username,
			Secret:      body.Secret,
			URLs:        body.URLs,
			Notes:       body.Notes,
			LockVersion: body.LockVersion,
		})
		logEntityEvent(user, "update", vault.KindPassword, id, err)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, viewPassword(updated))
	}).Methods("PATCH")

	r.HandleFunc("/passwords/{id}", handleDelete(srv, vault.KindPassword)).Methods("DELETE")
	r.HandleFunc("/passwords/{id}/move", handleMove(srv, vault.KindPassword)).Methods("POST")
}
