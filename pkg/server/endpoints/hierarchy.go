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

// handleChildren serves one page of an entity's live direct children.
func handleChildren(srv *server.Server, kind vault.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			respondWithError(w, err)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil {
				respondWithError(w, vault.ErrValidation)
				return
			}
		}

		parent := store.ParentRef{Kind: kind, ID: mux.Vars(r)["id"]}
		children, next, err := srv.Entities.ListChildren(user, parent, r.URL.Query().Get("after"), limit)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, viewChildren(children, next))
	}
}

// handleDelete trashes an entity's whole subtree and reports the count.
func handleDelete(srv *server.Server, kind vault.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			respondWithError(w, err)
			return
		}

		id := mux.Vars(r)["id"]
		count, err := srv.Entities.Delete(user, kind, id)
		audit.Log(audit.EntityEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			Operation:    "delete",
			EntityKind:   kind.String(),
			EntityID:     id,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]int{"trashed": count})
	}
}

type moveRequest struct {
	ParentKind string `json:"parent_kind"`
	ParentID   string `json:"parent_id"`
}

// handleMove reparents an entity under a new scope.
func handleMove(srv *server.Server, kind vault.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var req moveRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, err)
			return
		}
		parentKind, err := vault.EntityKindString(req.ParentKind)
		if err != nil {
			respondWithError(w, vault.ErrValidation)
			return
		}

		id := mux.Vars(r)["id"]
		err = srv.Entities.Move(user, kind, id, store.ParentRef{Kind: parentKind, ID: req.ParentID})
		audit.Log(audit.EntityEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(user),
			Operation:    "move",
			EntityKind:   kind.String(),
			EntityID:     id,
			Success:      err == nil,
			ErrorMessage: errMessage(err),
		})
		if err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
