// Package keyprovider supplies per-tenant encryption keys to the vault
// core. Key storage, rotation and multi-tenant isolation live here, behind
// the Provider interface; the core only ever asks for "the active key for
// tenant X".
package keyprovider

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DataKeySize is the required size of the master data key.
	DataKeySize = 32

	// Tenant subkeys are derived with PBKDF2-SHA256. The master key is
	// already high-entropy, so the iteration count buys domain
	// separation, not stretching.
	deriveIterations = 4096
)

// ErrNoKey is returned when no key material is available for a tenant.
var ErrNoKey = errors.New("no encryption key available")

// Provider returns the active encryption key for a tenant.
type Provider interface {
	Key(tenantID string) ([]byte, error)
}

// deriveTenantKey derives a tenant-scoped subkey from the master data key
// so two tenants never share a working key.
func deriveTenantKey(dataKey []byte, tenantID string) []byte {
	return pbkdf2.Key(dataKey, []byte("tenant:"+tenantID), deriveIterations, DataKeySize, sha256.New)
}

func validateDataKey(dataKey []byte) error {
	if len(dataKey) != DataKeySize {
		return fmt.Errorf("%w: data key must be %d bytes, got %d", ErrNoKey, DataKeySize, len(dataKey))
	}
	return nil
}
