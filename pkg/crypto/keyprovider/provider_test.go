package keyprovider

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataKey() []byte {
	key := make([]byte, DataKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestStaticDerivesDistinctTenantKeys(t *testing.T) {
	provider, err := NewStatic(testDataKey())
	require.NoError(t, err)

	keyA, err := provider.Key("tenant-a")
	require.NoError(t, err)
	keyB, err := provider.Key("tenant-b")
	require.NoError(t, err)

	assert.Len(t, keyA, DataKeySize)
	assert.False(t, bytes.Equal(keyA, keyB), "tenants must not share a working key")

	// derivation is deterministic
	keyA2, err := provider.Key("tenant-a")
	require.NoError(t, err)
	assert.Equal(t, keyA, keyA2)
}

func TestStaticRejectsBadKeySize(t *testing.T) {
	_, err := NewStatic(make([]byte, 16))
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestNewStaticFromEnv(t *testing.T) {
	t.Setenv("TEST_VAULT_DATA_KEY", base64.StdEncoding.EncodeToString(testDataKey()))

	provider, err := NewStaticFromEnv("TEST_VAULT_DATA_KEY")
	require.NoError(t, err)

	key, err := provider.Key("tenant-a")
	require.NoError(t, err)
	assert.Len(t, key, DataKeySize)

	t.Setenv("TEST_VAULT_DATA_KEY", "not-base64!!!")
	_, err = NewStaticFromEnv("TEST_VAULT_DATA_KEY")
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = NewStaticFromEnv("TEST_VAULT_DATA_KEY_MISSING")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestFileProviderLoadsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_key")
	require.NoError(t, os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(testDataKey())+"\n"), 0o600))

	provider, err := NewFile(path)
	require.NoError(t, err)
	defer provider.Close()

	static, err := NewStatic(testDataKey())
	require.NoError(t, err)

	fileKey, err := provider.Key("tenant-a")
	require.NoError(t, err)
	staticKey, err := static.Key("tenant-a")
	require.NoError(t, err)

	assert.Equal(t, staticKey, fileKey, "file and static providers must derive the same tenant key")
}

func TestFileProviderRejectsMissingFile(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNoKey)
}
