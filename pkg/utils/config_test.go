package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UNIHUB_CONFIG", "")

	cfg, _, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTDuration)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  http_addr: ":9000"
log:
  level: debug
database:
  path: /tmp/from-file.db
auth:
  jwt_ttl: 2h
`), 0o644))

	t.Setenv("UNIHUB_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("UNIHUB_RATE_LIMIT_BURST", "7")

	cfg, v, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTDuration)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, path, v.ConfigFileUsed())
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsDefaultSecretInRelease(t *testing.T) {
	t.Setenv("UNIHUB_CONFIG", "")
	t.Setenv("UNIHUB_APP_MODE", "")
	t.Setenv("UNIHUB_AUTH_JWT_SECRET", "")

	cfg, _, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "release", cfg.App.Mode)
	require.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")

	t.Setenv("UNIHUB_AUTH_JWT_SECRET", "s3cr3t-for-prod")
	cfg, _, err = Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidateAllowsDefaultSecretInDebug(t *testing.T) {
	t.Setenv("UNIHUB_CONFIG", "")
	t.Setenv("UNIHUB_APP_MODE", "debug")

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}
