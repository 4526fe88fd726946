package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature or claim
// validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the vault identity inside a signed bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	Login    string `json:"login"`
	Admin    bool   `json:"admin"`
}

// IssueToken signs an HS256 token for the identity.
func IssueToken(id *Identity, signingKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   id.Login,
		},
		UserID:   id.UserID,
		TenantID: id.TenantID,
		Login:    id.Login,
		Admin:    id.Admin,
	})

	return token.SignedString(signingKey)
}

// ParseToken validates a bearer token and reconstructs the Identity.
func ParseToken(tokenString string, signingKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" || claims.TenantID == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Login:    claims.Login,
		Admin:    claims.Admin,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
