package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9000
  env: production
database:
  url: postgres://file
jwt:
  secret: file-secret
  ttl: 1h
auth:
  strict_mobile_code: true
storage:
  type: s3
  bucket: assets
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVER_ENV", "")
	t.Setenv("JWT_TTL", "")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "postgres://file", cfg.Database.DSN)
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.True(t, cfg.Auth.StrictMobileCode)
	assert.Equal(t, "assets", cfg.Storage.Bucket)

	// незаданное в файле берется из значений по умолчанию
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 5, cfg.Notifications.MaxAttempts)
	assert.False(t, cfg.IsDevelopment())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("BLOB_STORAGE_URL", "https://cdn.example.com")
	t.Setenv("AUTH_STRICT_MOBILE_CODE", "false")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.BaseURL)
	assert.False(t, cfg.Auth.StrictMobileCode)
}

func TestLoadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://only-env")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://only-env", cfg.Database.DSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL())
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(writeConfig(t, "jwt:\n  secret: s\n"))
	assert.ErrorContains(t, err, "database url")

	_, err = Load(writeConfig(t, "database:\n  url: x\njwt:\n  secret: s\n  ttl: soon\n"))
	assert.ErrorContains(t, err, "jwt ttl")
}
