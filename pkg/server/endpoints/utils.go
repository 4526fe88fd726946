package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	respondWithJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": err.Error(),
		},
	})
}

// errorStatus maps the vault error taxonomy onto HTTP. Restore conflicts
// share 409 with plain conflicts but keep a distinct code so clients can
// tell "retry" from "resolve placement first".
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, vault.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, vault.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied"
	case errors.Is(err, vault.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, vault.ErrRestoreConflict):
		return http.StatusConflict, "restore_conflict"
	case errors.Is(err, vault.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, crypto.ErrInvalidKey), errors.Is(err, crypto.ErrDecryptionFailed):
		return http.StatusInternalServerError, "crypto_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func decodeJSON(r *http.Request, into interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return vault.ErrValidation
	}
	return nil
}

// currentUser returns the identity resolved by the auth middleware. The
// middleware rejects unauthenticated requests, so a missing identity is
// a wiring bug and surfaces as 500.
func currentUser(r *http.Request) (*identity.Identity, error) {
	user, ok := identity.Get(r.Context())
	if !ok {
		return nil, errors.New("no identity in request context")
	}
	return user, nil
}

func clientIP(user *identity.Identity) string {
	if user.RemoteIP == nil {
		return ""
	}
	return user.RemoteIP.String()
}
