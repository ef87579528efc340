package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "Asia/Tokyo", cfg.IssuerTimezone)
	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.Equal(t, 100, cfg.Sync.MaxResults)
	assert.Equal(t, "http://127.0.0.1:8742/callback", cfg.OAuth.RedirectURI)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.NotEmpty(t, cfg.OAuth.VaultPath)
}

func TestInitializeConfig_EnvOverride(t *testing.T) {
	t.Setenv("MAILLET_ISSUER_TIMEZONE", "UTC")
	t.Setenv("GOOGLE_CLIENT_ID", "client-from-env")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.IssuerTimezone)
	assert.Equal(t, "client-from-env", cfg.OAuth.ClientID)
}

func TestConfig_BatchDelay(t *testing.T) {
	var cfg Config
	cfg.Sync.BatchDelayMS = 1500
	assert.Equal(t, 1500*time.Millisecond, cfg.BatchDelay())
}

func TestConfig_Location(t *testing.T) {
	cfg := Config{IssuerTimezone: "Asia/Tokyo"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	cfg.IssuerTimezone = "Not/AZone"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MAILLET_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("MAILLET_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MAILLET_TEST_KEY_MISSING", "fallback"))
}
