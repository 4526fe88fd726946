package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/vault-in-go/pkg/server"
)

// RegisterStatusEndpoints serves liveness and readiness. These routes
// bypass authentication so probes work without a token.
func RegisterStatusEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]string{"status": "ok"}

		if srv.DB != nil {
			sqlDB, err := srv.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(req.Context())
			}
			if err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				respondWithJSON(w, http.StatusServiceUnavailable, status)
				return
			}
			status["database"] = "ok"
		}

		respondWithJSON(w, http.StatusOK, status)
	}).Methods("GET")
}
