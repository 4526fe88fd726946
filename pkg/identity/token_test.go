package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	signingKey := []byte("test-signing-key")
	id := &Identity{
		UserID:   "user-1",
		TenantID: "tenant-1",
		Login:    "alice",
		Admin:    true,
	}

	tokenString, err := IssueToken(id, signingKey, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	parsed, err := ParseToken(tokenString, signingKey)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "tenant-1", parsed.TenantID)
	assert.Equal(t, "alice", parsed.Login)
	assert.True(t, parsed.Admin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt, time.Minute)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	id := &Identity{UserID: "user-1", TenantID: "tenant-1", Login: "alice"}

	tokenString, err := IssueToken(id, []byte("key-a"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, []byte("key-b"))
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	id := &Identity{UserID: "user-1", TenantID: "tenant-1", Login: "alice"}

	tokenString, err := IssueToken(id, []byte("key"), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, []byte("key"))
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", []byte("key"))
	assert.Error(t, err)
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &Identity{UserID: "user-1", TenantID: "tenant-1"}

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Same(t, id, got)

	_, ok = Get(context.Background())
	assert.False(t, ok)
}
