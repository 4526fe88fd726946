package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VAULT_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.ListLimitMax)
	assert.Equal(t, 480, cfg.TokenTTL)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "default", cfg.Source("list_limit_max"))
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VAULT_CONFIG_PATH", dir)

	contents := "list_limit_max: 25\nport: 9090\ntrusted_proxies:\n  - 10.0.0.0/8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(contents), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.ListLimitMax)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file", cfg.Source("list_limit_max"))
	assert.Equal(t, "default", cfg.Source("token_ttl"))
	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.False(t, cfg.IsTrustedProxy("192.168.1.1"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VAULT_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("list_limit_max: 25\n"), 0o600))

	t.Setenv("VAULT_LIST_LIMIT_MAX", "7")
	t.Setenv("VAULT_AUDIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.ListLimitMax)
	assert.Equal(t, "environment", cfg.Source("list_limit_max"))
	assert.False(t, cfg.AuditEnabled)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	assert.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.ListLimitMax = -1
	assert.Error(t, cfg.Validate())
}

func TestFormatText(t *testing.T) {
	t.Setenv("VAULT_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	text := cfg.FormatText()
	assert.Contains(t, text, "list_limit_max")
	assert.Contains(t, text, "default")

	jsonOut, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, jsonOut, "\"attributes\"")
}
