// Package middleware carries the HTTP middlewares of the vault server.
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/vault-in-go/pkg/audit"
	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/identity"
)

// BearerAuthenticator validates bearer tokens and resolves the caller
// identity into the request context.
type BearerAuthenticator struct {
	SigningKey []byte
	Config     *config.VaultConfig
}

func NewBearerAuthenticator(signingKey []byte, conf *config.VaultConfig) *BearerAuthenticator {
	return &BearerAuthenticator{SigningKey: signingKey, Config: conf}
}

func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := b.clientIP(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			b.reject(w, ip, "Authorization missing")
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			b.reject(w, ip, "Malformed authorization header")
			return
		}

		id, err := identity.ParseToken(tokenStr, b.SigningKey)
		if err != nil {
			b.reject(w, ip, "Invalid token")
			return
		}
		id.WithRemoteIP(net.ParseIP(ip))

		audit.Log(audit.AuthenticateEvent{
			UserID:   id.UserID,
			TenantID: id.TenantID,
			ClientIP: ip,
			Success:  true,
		})

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func (b *BearerAuthenticator) reject(w http.ResponseWriter, ip, message string) {
	audit.Log(audit.AuthenticateEvent{
		ClientIP:     ip,
		Success:      false,
		ErrorMessage: message,
	})
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(message))
}

// clientIP resolves the originating address, trusting X-Forwarded-For
// only when the direct peer is a configured proxy.
func (b *BearerAuthenticator) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	if b.Config != nil && b.Config.IsTrustedProxy(peer) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	return peer
}
