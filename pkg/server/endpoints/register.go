package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
	"github.com/doodlesbykumbi/vault-in-go/pkg/server/middleware"
)

// RegisterAll wires every API endpoint onto the server's router. Status
// and metrics stay outside the auth middleware; everything else requires
// a bearer token.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	srv.Router.Handle("/metrics", middleware.MetricsHandler()).Methods("GET")

	auth := middleware.NewBearerAuthenticator(srv.SigningKey, srv.Config)
	public := map[string]bool{
		"/status":  true,
		"/metrics": true,
	}

	srv.Router.Use(middleware.Metrics)
	srv.Router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			auth.Middleware(next).ServeHTTP(w, r)
		})
	})

	RegisterOrganizationsEndpoints(srv)
	RegisterCollectionsEndpoints(srv)
	RegisterFoldersEndpoints(srv)
	RegisterPasswordsEndpoints(srv)
	RegisterAttachmentsEndpoints(srv)
	RegisterTrashEndpoints(srv)
	RegisterAccessEndpoints(srv)
}
