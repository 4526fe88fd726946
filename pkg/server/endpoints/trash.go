package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
)

func RegisterTrashEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/trash", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var after *store.Cursor
		if raw := req.URL.Query().Get("after"); raw != "" {
			after, err = store.ParseCursor(raw)
			if err != nil {
				respondWithError(w, vault.ErrValidation)
				return
			}
		}
		limit := 0
		if raw := req.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil {
				respondWithError(w, vault.ErrValidation)
				return
			}
		}

		items, err := srv.Trash.List(user, after, limit)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}).Methods("GET")

	r.HandleFunc("/trash/{id}/restore", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		item, err := srv.Trash.Restore(user, id)
		audit.Log(audit.TrashEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			Action:       "restore",
			TrashItemID:  id,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}).Methods("POST")

	r.HandleFunc("/trash/{id}", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(req)["id"]
		err = srv.Trash.Purge(user, id)
		audit.Log(audit.TrashEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			Action:       "purge",
			TrashItemID:  id,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods("DELETE")

	r.HandleFunc("/trash", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		count, err := srv.Trash.EmptyAll(user)
		audit.Log(audit.TrashEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			Action:       "empty",
			Count:        count,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]int{"purged": count})
	}).Methods("DELETE")
}
