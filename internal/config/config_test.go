package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexatic/storeconnect/internal/errs"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_STORE_KEY_ID", "KEY123")
	t.Setenv("APP_STORE_ISSUER_ID", "issuer-uuid")
	t.Setenv("APP_STORE_PRIVATE_KEY_PATH", "/keys/AuthKey.p8")
}

func TestLoadFromEnvWithDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_STORE_APP_ID", "6448311069")
	t.Setenv("APP_STORE_SCOPE", "GET /v1/apps, GET /v1/betaTesters")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "KEY123", cfg.KeyID)
	assert.Equal(t, "6448311069", cfg.AppID)
	assert.Equal(t, []string{"GET /v1/apps", "GET /v1/betaTesters"}, cfg.Scope)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 1, cfg.HTTP.MaxRetries)
	assert.Equal(t, 50, cfg.Pagination.MaxPages)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	t.Setenv("APP_STORE_KEY_ID", "")
	t.Setenv("APP_STORE_ISSUER_ID", "")
	t.Setenv("APP_STORE_PRIVATE_KEY_PATH", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
	assert.Contains(t, err.Error(), "APP_STORE_KEY_ID")
	assert.Contains(t, err.Error(), "APP_STORE_ISSUER_ID")
	assert.Contains(t, err.Error(), "APP_STORE_PRIVATE_KEY_PATH")
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_STORE_APP_ID", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_id: from-file
http:
  timeout_seconds: 10
  max_retries: 2
pagination:
  max_pages: 5
cache:
  enabled: true
  ttl_seconds: 60
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AppID, "environment wins over the file")
	assert.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, 5, cfg.Pagination.MaxPages)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pagination:\n  max_pages: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestLoadMissingConfigFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}
