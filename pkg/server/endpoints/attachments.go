package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
)

func RegisterAttachmentsEndpoints(srv *server.Server) {
	r := srv.Router

	r.HandleFunc("/passwords/{id}/attachments", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		var body struct {
			Name     string `json:"name"`
			MimeType string `json:"mime_type"`
			Size     int64  `json:"size"`
		}
		if err := decodeJSON(req, &body); err != nil {
			respondWithError(w, err)
			return
		}

		created, uploadURL, err := srv.Attachments.Create(
			req.Context(), user, mux.Vars(req)["id"], body.Name, body.MimeType, body.Size,
		)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"attachment": created,
			"upload_url": uploadURL,
		})
	}).Methods("POST")

	r.HandleFunc("/passwords/{id}/attachments", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		list, err := srv.Attachments.List(user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"attachments": list})
	}).Methods("GET")

	r.HandleFunc("/attachments/{id}/url", func(w http.ResponseWriter, req *http.Request) {
		user, err := currentUser(req)
		if err != nil {
			respondWithError(w, err)
			return
		}

		url, err := srv.Attachments.DownloadURL(req.Context(), user, mux.Vars(req)["id"])
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"url": url})
	}).Methods("GET")
}
