package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_DOMAIN", "DB_NAME", "REDIS_HOST", "LISTING_CACHE_TTL", "TRACK_GROUP_TIE_BREAK"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.APIDomain)
	assert.Equal(t, "catalog", cfg.DBName)
	assert.Equal(t, 30*time.Second, cfg.ListingCacheTTL)
	assert.Equal(t, "id_desc", cfg.TrackGroupTieBreak)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_DOMAIN", "https://api.example.com")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LISTING_CACHE_TTL", "2m")
	t.Setenv("TRACK_GROUP_TIE_BREAK", "id_asc")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://api.example.com", cfg.APIDomain)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Minute, cfg.ListingCacheTTL)
	assert.Equal(t, "id_asc", cfg.TrackGroupTieBreak)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("LISTING_CACHE_TTL", "soon")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.ListingCacheTTL)
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=from_file\nDB_USER=file_user\n"), 0o600))

	t.Setenv("DB_NAME", "from_env")
	t.Setenv("DB_USER", "")
	os.Unsetenv("DB_USER")
	t.Cleanup(func() { os.Unsetenv("DB_USER") })

	cfg := Load(envFile)

	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, "file_user", cfg.DBUser)
}
