package keyprovider

import (
	"encoding/base64"
	"fmt"
	"os"
)

// Static derives tenant keys from a fixed master data key, typically the
// base64 value of the VAULT_DATA_KEY environment variable.
type Static struct {
	dataKey []byte
}

var _ Provider = (*Static)(nil)

// NewStatic builds a Static provider from raw key material.
func NewStatic(dataKey []byte) (*Static, error) {
	if err := validateDataKey(dataKey); err != nil {
		return nil, err
	}
	key := make([]byte, len(dataKey))
	copy(key, dataKey)
	return &Static{dataKey: key}, nil
}

// NewStaticFromEnv reads a base64-encoded data key from the named
// environment variable.
func NewStaticFromEnv(envVar string) (*Static, error) {
	encoded, ok := os.LookupEnv(envVar)
	if !ok || encoded == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoKey, envVar)
	}

	dataKey, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", ErrNoKey, envVar, err)
	}

	return NewStatic(dataKey)
}

func (s *Static) Key(tenantID string) ([]byte, error) {
	return deriveTenantKey(s.dataKey, tenantID), nil
}
