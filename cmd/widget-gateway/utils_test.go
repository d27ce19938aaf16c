package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGetKeyDBURL(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	urlFile := filepath.Join(dir, "keydb-url")
	require.NoError(t, os.WriteFile(urlFile, []byte("  redis://from-file:6379\n"), 0o600))

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "redis://from-env:6379")
		t.Setenv("GATEWAY_KEYDB_URL_FILE", urlFile)
		assert.Equal(t, "redis://from-env:6379", GetKeyDBURL(logger))
	})

	t.Run("file fallback", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "")
		t.Setenv("GATEWAY_KEYDB_URL_FILE", urlFile)
		assert.Equal(t, "redis://from-file:6379", GetKeyDBURL(logger))
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "")
		t.Setenv("GATEWAY_KEYDB_URL_FILE", filepath.Join(dir, "missing"))
		assert.Equal(t, "redis://keydb:6379", GetKeyDBURL(logger))
	})
}

func TestGetJWTSecret(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("GATEWAY_JWT_SECRET_FILE", filepath.Join(dir, "missing"))
		_, err := GetJWTSecret(logger)
		assert.Error(t, err)
	})

	t.Run("from file", func(t *testing.T) {
		secretFile := filepath.Join(dir, "jwt-secret")
		require.NoError(t, os.WriteFile(secretFile, []byte("s3cret\n"), 0o600))
		t.Setenv("JWT_SECRET", "")
		t.Setenv("GATEWAY_JWT_SECRET_FILE", secretFile)

		secret, err := GetJWTSecret(logger)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", secret)
	})
}

func TestGetAPIKeys(t *testing.T) {
	t.Setenv("GITHUB_API_TOKEN", "gh")
	t.Setenv("OPENWEATHER_API_KEY", "ow")
	t.Setenv("NEWSAPI_API_KEY", "")

	keys := GetAPIKeys(zaptest.NewLogger(t))

	assert.Equal(t, APIKeys{GitHubToken: "gh", OpenWeather: "ow"}, keys)
}
