package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "HTTP_ADDR", "REDIS_ADDR", "REDIS_PASS",
		"IDENTITY_SERVICE_URL", "OAUTH_CLIENT_ID", "SESSION_SECRET", "SESSION_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:5125", cfg.IdentityServiceURL)
	assert.Equal(t, "client_spa_development", cfg.OAuthClientID)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresIdentityURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_SERVICE_URL")
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("IDENTITY_SERVICE_URL", "https://identity.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_ProductionComplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("IDENTITY_SERVICE_URL", "https://identity.example.com/")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	// trailing slash normalized away
	assert.Equal(t, "https://identity.example.com", cfg.IdentityServiceURL)
}

func TestLoad_SessionTTLOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "12h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoad_BadSessionTTLFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
}
